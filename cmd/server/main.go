package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"femilyship-web/internal/api"
	"femilyship-web/internal/auth"
	"femilyship-web/internal/cache"
	"femilyship-web/internal/config"
	"femilyship-web/internal/data"
	"femilyship-web/internal/handler"
	"femilyship-web/internal/logger"
	"femilyship-web/internal/middleware"
	"femilyship-web/internal/service"
	"femilyship-web/internal/session"
	"femilyship-web/internal/view"
	"femilyship-web/web"

	"github.com/alexedwards/scs/v2"
)

func main() {
	// --- Configuration Loading ---
	cfg, err := config.LoadConfig()
	if err != nil {
		// Use fmt.Printf here because the logger is not yet initialized.
		fmt.Printf("Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// --- Logger Initialization ---
	log := logger.New(cfg.Log, os.Stdout)

	// --- Token Store ---
	log.Info(fmt.Sprintf("Opening token store at %s...", cfg.Store.Path))
	db, err := data.NewDB(cfg.Store.Path)
	if err != nil {
		log.Fatal(err, "Failed to open token store")
	}
	defer db.Close()
	tokenStore := data.NewTokenStore(db)

	// --- Session Bootstrap ---
	sessionManager := session.NewManager(tokenStore, log, session.WithDiscardExpired(cfg.Session.DiscardExpired))
	if err := sessionManager.Bootstrap(context.Background()); err != nil {
		log.Fatal(err, "Failed to restore session")
	}

	// Flash messages only live across a redirect, so the in-memory store is enough.
	flash := scs.New()
	flash.Lifetime = cfg.Session.FlashLifetime
	flash.Cookie.Name = "femilyship_flash"
	flash.Cookie.SameSite = http.SameSiteLaxMode
	flash.Cookie.Secure = cfg.Server.TLS.Enabled

	// --- Authorization Setup ---
	log.Info("Initializing authorization...")
	enforcer, err := auth.NewEnforcer()
	if err != nil {
		log.Fatal(err, "Failed to initialize enforcer")
	}
	auth.SeedDefaultPolicies(enforcer, log)

	// --- View Template Initialization ---
	log.Info("Initializing view templates...")
	viewService, err := view.New(web.TemplateFS)
	if err != nil {
		log.Fatal(err, "Failed to initialize view templates")
	}
	log.Info("View templates initialized.")

	// --- Dependency Injection and Handler Initialization ---
	client := api.New(cfg.API, sessionManager, log.With(map[string]interface{}{"component": "api"}))
	responseCache := cache.New(cfg.Cache)

	topicService := service.NewTopicService(client, responseCache, log)
	essayService := service.NewEssayService(client, sessionManager, responseCache, log)
	authService := service.NewAuthService(client, sessionManager, log)

	addr := net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)
	scheme := "http"
	if cfg.Server.TLS.Enabled {
		scheme = "https"
	}
	handlers := handler.Handlers{
		Topic: handler.NewTopicHandler(topicService, viewService, flash, log),
		Essay: handler.NewEssayHandler(essayService, viewService, flash, log),
		Auth:  handler.NewAuthHandler(authService, viewService, flash, log),
		Seo:   handler.NewSeoHandler(topicService, fmt.Sprintf("%s://%s", scheme, addr), log),
	}

	authzMiddleware := middleware.Authorizer(enforcer, sessionManager, flash, log)
	errorMiddleware := middleware.Error(log, viewService)

	// --- Router Setup ---
	router := handler.NewRouter(handlers, authzMiddleware, errorMiddleware, flash)

	// --- Server Initialization and Graceful Shutdown ---
	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		if cfg.Server.TLS.Enabled {
			log.Info(fmt.Sprintf("Starting HTTPS server on %s", server.Addr))
			if err := server.ListenAndServeTLS(cfg.Server.TLS.CertFile, cfg.Server.TLS.KeyFile); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTPS server")
			}
		} else {
			log.Info(fmt.Sprintf("Starting HTTP server on %s", server.Addr))
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Fatal(err, "Could not start HTTP server")
			}
		}
	}()
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Warn("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Fatal(err, "Server forced to shutdown")
	}
	log.Info("Server exiting")
}
