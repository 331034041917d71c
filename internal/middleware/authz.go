package middleware

import (
	"fmt"
	"net/http"

	"femilyship-web/internal/auth"
	"femilyship-web/internal/logger"
	"femilyship-web/internal/session"
	"femilyship-web/internal/view"

	"github.com/casbin/casbin/v2"
)

// LoginRequiredMessage is flashed when an anonymous user is sent to the login page.
const LoginRequiredMessage = "Please log in to continue."

// Identity reports the logged-in user, if any.
type Identity interface {
	CurrentUser() (string, bool)
}

// Authorizer creates a new middleware for authorization.
// It resolves the caller's role from the session and checks it with Casbin.
// Anonymous callers denied a route are redirected to the login page; everyone
// else gets 403.
func Authorizer(e casbin.IEnforcer, id Identity, flash session.Flash, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userInfo := &UserInfo{Subject: anonymousSubject, Roles: []string{auth.RoleAnonymous}}
			if user, ok := id.CurrentUser(); ok {
				userInfo = &UserInfo{Subject: user, Roles: []string{auth.RoleMember}}
			}
			r = r.WithContext(SetUserInfo(r.Context(), userInfo))

			allowed, err := e.Enforce(userInfo.Roles[0], r.URL.Path, r.Method)
			if err != nil {
				log.Error(err, fmt.Sprintf("Failed to authorize %s %s", r.Method, r.URL.Path))
				http.Error(w, "Authorization error", http.StatusInternalServerError)
				return
			}

			if !allowed {
				if userInfo.IsAnonymous() {
					flash.Put(r.Context(), session.FlashKey, LoginRequiredMessage)
					redirect(w, r, "/login")
					return
				}
				http.Error(w, "Forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// redirect sends the browser to url, using HX-Redirect for htmx requests.
func redirect(w http.ResponseWriter, r *http.Request, url string) {
	if view.IsHTMX(r) {
		w.Header().Set("HX-Redirect", url)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	http.Redirect(w, r, url, http.StatusFound)
}
