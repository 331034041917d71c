package handler

import (
	"fmt"
	"net/http"

	"femilyship-web/internal/api"
	"femilyship-web/internal/logger"
	"femilyship-web/internal/middleware"
	"femilyship-web/internal/service"
	"femilyship-web/internal/session"
	"femilyship-web/internal/view"
)

// RegisteredMessage is flashed on the login page after a successful registration.
const RegisteredMessage = "Registration successful! Please log in."

// AuthHandler holds the dependencies for the login, registration and logout handlers.
type AuthHandler struct {
	renderer
	auth service.AuthServicer
	log  logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as service.AuthServicer, v *view.View, flash session.Flash, log logger.Logger) *AuthHandler {
	return &AuthHandler{
		renderer: renderer{view: v, flash: flash},
		auth:     as,
		log:      log,
	}
}

// loginFormHandler shows the login form.
func (h *AuthHandler) loginFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.render(w, r, http.StatusOK, "auth.html", view.Page{"IsRegister": false, "Username": ""})
}

// registerFormHandler shows the registration form.
func (h *AuthHandler) registerFormHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	return h.render(w, r, http.StatusOK, "auth.html", view.Page{"IsRegister": true, "Username": ""})
}

// loginHandler exchanges the submitted credentials for a session.
func (h *AuthHandler) loginHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	username := r.FormValue("username")
	if err := h.auth.Login(r.Context(), username, r.FormValue("password")); err != nil {
		h.log.Warn(fmt.Sprintf("Login failed for %q: %v", username, err))
		return h.formFailure(w, r, false, username, err)
	}
	redirect(w, r, "/")
	return nil
}

// registerHandler creates an account and sends the user to the login form.
func (h *AuthHandler) registerHandler(w http.ResponseWriter, r *http.Request) *middleware.AppError {
	username := r.FormValue("username")
	if err := h.auth.Signup(r.Context(), username, r.FormValue("password")); err != nil {
		h.log.Warn(fmt.Sprintf("Registration failed for %q: %v", username, err))
		return h.formFailure(w, r, true, username, err)
	}
	h.flash.Put(r.Context(), session.FlashKey, RegisteredMessage)
	redirect(w, r, "/login")
	return nil
}

// logoutHandler ends the session and returns home.
func (h *AuthHandler) logoutHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Logout(r.Context()); err != nil {
		h.log.Error(err, "Failed to clear stored session")
	}
	redirect(w, r, "/")
}

func (h *AuthHandler) formFailure(w http.ResponseWriter, r *http.Request, register bool, username string, err error) *middleware.AppError {
	status := statusFor(err)
	if api.KindOf(err) == api.KindAuth {
		status = http.StatusUnauthorized
	}
	pageData := view.Page{
		"IsRegister": register,
		"Username":   username,
		"State":      view.Failed(authFailureMessage(err), ""),
	}
	return h.render(w, r, status, "auth.html", pageData)
}

// authFailureMessage maps a login or registration error to the text shown on the form.
func authFailureMessage(err error) string {
	switch api.KindOf(err) {
	case api.KindAuth:
		return "Invalid username or password"
	case api.KindValidation:
		if api.StatusOf(err) == http.StatusConflict {
			return "Username already exists"
		}
		return api.MessageOf(err)
	case api.KindServer:
		return "Server error. Please try again later."
	case api.KindNetwork:
		return "Network error. Please check your connection."
	default:
		return "Something went wrong. Please try again."
	}
}
