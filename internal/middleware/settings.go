package middleware

import (
	"context"
	"net/http"

	"femilyship-web/internal/view"
)

// SettingsMiddleware checks for a "basic=true" query parameter and sets the
// view.BasicModeKey flag in the request context. Templates use it to fall back
// to plain forms and links instead of htmx.
func SettingsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		basicMode := r.URL.Query().Get("basic") == "true"
		ctx := context.WithValue(r.Context(), view.BasicModeKey, basicMode)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
