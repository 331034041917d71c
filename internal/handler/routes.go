package handler

import (
	"net/http"

	"femilyship-web/internal/middleware"
	"femilyship-web/internal/session"
	"femilyship-web/web"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// Handlers groups the page handlers mounted by NewRouter.
type Handlers struct {
	Topic *TopicHandler
	Essay *EssayHandler
	Auth  *AuthHandler
	Seo   *SeoHandler
}

// NewRouter creates and configures a new chi router.
func NewRouter(h Handlers, authzMiddleware func(http.Handler) http.Handler, errorMiddleware func(middleware.AppHandler) http.Handler, flash session.Flash) *chi.Mux {
	r := chi.NewRouter()

	// A good base middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.SettingsMiddleware)
	r.Use(middleware.SameOrigin)
	r.Use(flash.LoadAndSave)
	r.Use(authzMiddleware)

	r.Handle("/static/*", http.FileServer(http.FS(web.StaticFS)))
	r.Get("/robots.txt", h.Seo.robotsHandler)
	r.Get("/sitemap.xml", h.Seo.sitemapHandler)

	// Pages
	r.Method(http.MethodGet, "/", errorMiddleware(h.Topic.homeHandler))
	r.Method(http.MethodGet, "/topic/{id}", errorMiddleware(h.Topic.topicHandler))
	r.Method(http.MethodGet, "/essay/{id}", errorMiddleware(h.Essay.viewHandler))

	// Member routes; the authorizer turns anonymous users away.
	r.Method(http.MethodGet, "/essay/{id}/edit", errorMiddleware(h.Essay.editHandler))
	r.Method(http.MethodPost, "/essay/{id}/edit", errorMiddleware(h.Essay.saveHandler))
	r.Method(http.MethodGet, "/essay/{id}/delete", errorMiddleware(h.Essay.deleteConfirmHandler))
	r.Method(http.MethodPost, "/essay/{id}/delete", errorMiddleware(h.Essay.deleteHandler))

	// Authentication routes
	r.Method(http.MethodGet, "/login", errorMiddleware(h.Auth.loginFormHandler))
	r.Method(http.MethodPost, "/login", errorMiddleware(h.Auth.loginHandler))
	r.Method(http.MethodGet, "/register", errorMiddleware(h.Auth.registerFormHandler))
	r.Method(http.MethodPost, "/register", errorMiddleware(h.Auth.registerHandler))
	r.Post("/logout", h.Auth.logoutHandler)

	return r
}
