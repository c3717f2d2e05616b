// Package server wires the dependency graph and owns the HTTP
// lifecycle. It is the composition root: everything is constructed
// here and handed down, so main.go stays minimal.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/link-collector/internal/auth"
	"github.com/sakif/link-collector/internal/config"
	"github.com/sakif/link-collector/internal/handler"
	"github.com/sakif/link-collector/internal/metadata"
	"github.com/sakif/link-collector/internal/middleware"
	sqliteRepo "github.com/sakif/link-collector/internal/repository/sqlite"
	"github.com/sakif/link-collector/internal/service"
)

// Server holds the router and the resources it must release on
// shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency chain: database, services,
// handlers, routes. Each layer receives only what it programs
// against; handlers never see the database.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes configures middleware and all route handlers.
//
//	POST /fetch-meta                → resolve page metadata     (public)
//	GET  /links                     → list saved links          (auth)
//	POST /links                     → save a link               (auth)
//	DELETE /links?id=               → delete a link             (auth)
//	POST /collections               → ensure + sync collection  (auth)
//	GET  /collections?shareId=      → read a shared collection  (public)
//	POST /auth/register             → email/password signup     (public)
//	POST /auth/login                → email/password login      (public)
//	POST /auth/logout               → clear session cookie      (public)
//	GET  /auth/me                   → current user              (auth)
//	GET  /auth/github/login         → OAuth redirect            (public, optional)
//	GET  /auth/github/callback      → OAuth completion          (public, optional)
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	var github *auth.GitHubProvider
	if s.config.GitHubEnabled() {
		github = auth.NewGitHubProvider(
			s.config.GitHubClientID,
			s.config.GitHubClientSecret,
			s.config.GitHubCallbackURL,
		)
	}

	resolver := metadata.NewResolver(s.config.FetchTimeout, s.logger)

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	linkService := service.NewLinkService(s.db, s.logger)
	collectionService := service.NewCollectionService(s.db, s.db, s.logger)

	authHandler := handler.NewAuthHandler(authService, github, s.logger)
	linkHandler := handler.NewLinkHandler(linkService, s.logger)
	metadataHandler := handler.NewMetadataHandler(resolver, s.logger)
	collectionHandler := handler.NewCollectionHandler(collectionService, s.logger)

	// Public routes. fetch-meta stays open so clients can preview a
	// URL before signing in; the SSRF guard bounds what it will touch.
	s.router.Get("/collections", collectionHandler.HandleGetShared)
	s.router.Post("/fetch-meta", metadataHandler.HandleFetch)
	s.router.Post("/auth/register", authHandler.HandleRegister)
	s.router.Post("/auth/login", authHandler.HandleLogin)
	s.router.Post("/auth/logout", authHandler.HandleLogout)
	if github != nil {
		s.router.Get("/auth/github/login", authHandler.HandleGitHubLogin)
		s.router.Get("/auth/github/callback", authHandler.HandleGitHubCallback)
	}

	// Everything else requires a valid token.
	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))

		r.Get("/links", linkHandler.HandleList)
		r.Post("/links", linkHandler.HandleCreate)
		r.Delete("/links", linkHandler.HandleDelete)
		r.Post("/collections", collectionHandler.HandleSync)
		r.Get("/auth/me", authHandler.HandleMe)
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, drain in-flight requests,
// close the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         s.config.ServerAddress,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.String("address", s.config.ServerAddress),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
