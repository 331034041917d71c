package middleware

import (
	"fmt"
	"net/http"

	"femilyship-web/internal/logger"
	"femilyship-web/internal/view"
)

// AppError represents a custom error type for the application.
type AppError struct {
	Error   error
	Message string
	Code    int
}

// AppHandler is a custom handler function type that returns an AppError.
type AppHandler func(http.ResponseWriter, *http.Request) *AppError

// Error is a middleware that converts handler errors into user-friendly error pages.
func Error(log logger.Logger, v *view.View) func(AppHandler) http.Handler {
	return func(next AppHandler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					log.Error(err, "Panic recovered")
					renderError(w, r, log, v, http.StatusInternalServerError, "Internal Server Error")
				}
			}()

			if err := next(w, r); err != nil {
				log.Error(err.Error, err.Message)
				renderError(w, r, log, v, err.Code, err.Message)
			}
		})
	}
}

func renderError(w http.ResponseWriter, r *http.Request, log logger.Logger, v *view.View, code int, message string) {
	page := view.Page{
		"StatusCode": code,
		"StatusText": message,
	}
	if err := v.Render(w, r, code, "error.html", view.Layout{User: GetUserInfo(r.Context())}, page); err != nil {
		log.Error(err, "Failed to render error page")
		http.Error(w, message, code)
	}
}
