package handler

import (
	"errors"
	"net/http"
	"strconv"

	"femilyship-web/internal/api"
	"femilyship-web/internal/middleware"
	"femilyship-web/internal/session"
	"femilyship-web/internal/view"

	"github.com/go-chi/chi/v5"
)

var errInvalidID = errors.New("invalid id")

// renderer renders pages with the fields every layout needs.
type renderer struct {
	view  *view.View
	flash session.Flash
}

// render writes page name with status, showing the current user and any pending flash message.
func (rd renderer) render(w http.ResponseWriter, r *http.Request, status int, name string, page view.Page) *middleware.AppError {
	layout := view.Layout{
		User:  middleware.GetUserInfo(r.Context()),
		Flash: rd.flash.PopString(r.Context(), session.FlashKey),
	}
	if err := rd.view.Render(w, r, status, name, layout, page); err != nil {
		return &middleware.AppError{Error: err, Message: "Failed to render page", Code: http.StatusInternalServerError}
	}
	return nil
}

// redirect sends the browser to url. htmx requests get an HX-Redirect header instead.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if view.IsHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}

// idParam parses the {id} URL parameter.
func idParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errInvalidID
	}
	return id, nil
}

// statusFor picks the response status for a failed API call.
func statusFor(err error) int {
	switch api.KindOf(err) {
	case api.KindNotFound:
		return http.StatusNotFound
	case api.KindAuth:
		if s := api.StatusOf(err); s != 0 {
			return s
		}
		return http.StatusForbidden
	case api.KindValidation:
		return http.StatusBadRequest
	case api.KindNetwork:
		return http.StatusBadGateway
	case api.KindServer:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
