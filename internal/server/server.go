// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It connects handlers, middleware and
// routes, and decides:
// - Which URL patterns map to which handler functions
// - What middleware runs on which routes
// - How the server starts and stops gracefully
//
// DEPENDENCY INJECTION FLOW:
// main.go loads config.Config and builds the logger, then:
//
//	Server.New() creates: sqlite.DB → services → handlers
//	                      hackerone.Client ↗ (SyncService)
//	                      secret.Sealer    ↗ (CredentialService)
//
// This is the "composition root" pattern: all dependencies are wired in one
// place (New/setupRoutes) rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/bounty-tracker/internal/auth"
	"github.com/sakif/bounty-tracker/internal/config"
	"github.com/sakif/bounty-tracker/internal/hackerone"
	"github.com/sakif/bounty-tracker/internal/handler"
	"github.com/sakif/bounty-tracker/internal/middleware"
	sqliteRepo "github.com/sakif/bounty-tracker/internal/repository/sqlite"
	"github.com/sakif/bounty-tracker/internal/secret"
	"github.com/sakif/bounty-tracker/internal/service"
)

// Server represents the HTTP server and all its dependencies.
//
// The Server owns the database connection. Start closes it on shutdown to
// flush the WAL and release the file lock.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New opens the database, builds every service and registers the routes.
//
// IMPORT ALIAS:
// repository/sqlite is imported as sqliteRepo so it isn't confused with
// the sqlite driver package.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
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

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database. Start calls it on shutdown.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz                                    → liveness
//	GET    /auth/github/login, /auth/github/callback   → OAuth (auth mode only)
//	POST   /auth/logout
//	GET    /api/me, /api/dashboard
//	CRUD   /api/platforms, /api/reports, /api/bounties,
//	       /api/checklists, /api/tips, /api/reading
//	GET|PUT|DELETE /api/integrations/{platformID}/credentials
//	POST   /api/integrations/{platformID}/sync
//
// MIDDLEWARE ORDER MATTERS:
// Middleware executes in the order it's added:
// 1. RequestID: assigns a unique ID to each request (for tracing)
// 2. RealIP: extracts the real client IP from proxy headers
// 3. Logger: logs each request with timing info
// 4. Recoverer: turns panics into a 500 instead of crashing
// 5. CORS: answers preflights before any auth check runs
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.CORS(s.config.CORSAllowedOrigins))

	s.router.Get("/healthz", handler.HandleHealth)

	// === Services ===
	sealer, err := secret.NewSealer(s.config.CredentialSecret)
	if err != nil {
		return fmt.Errorf("creating credential sealer: %w", err)
	}
	if s.config.UsesDevCredentialSecret() {
		s.logger.Warn("CREDENTIAL_SECRET not set; platform tokens are sealed with a development key")
	}

	h1 := hackerone.NewClient(hackerone.Config{
		BaseURL: s.config.HackerOneBaseURL,
		Timeout: s.config.HackerOneTimeout,
	}, s.logger)

	platformSvc := service.NewPlatformService(s.db.Platforms(), s.logger)
	reportSvc := service.NewReportService(s.db.Reports(), s.db.Platforms(), s.logger)
	bountySvc := service.NewBountyService(s.db.Bounties(), s.logger)
	checklistSvc := service.NewChecklistService(s.db.Checklists(), s.logger)
	tipSvc := service.NewTipService(s.db.Tips(), s.logger)
	readingSvc := service.NewReadingService(s.db.Reading(), s.logger)
	credentialSvc := service.NewCredentialService(s.db.Credentials(), s.db.Platforms(), sealer, s.logger)
	syncSvc := service.NewSyncService(s.db.Platforms(), credentialSvc, h1, s.logger)
	dashboardSvc := service.NewDashboardService(service.DashboardRepos{
		Platforms:  s.db.Platforms(),
		Reports:    s.db.Reports(),
		Bounties:   s.db.Bounties(),
		Checklists: s.db.Checklists(),
		Tips:       s.db.Tips(),
		Reading:    s.db.Reading(),
	}, s.logger)

	// === Auth ===
	// With a JWT secret, /api requires a session from GitHub login.
	// Without one, every request acts as the local user.
	var (
		tokens      *auth.TokenService
		requireUser func(http.Handler) http.Handler
		github      handler.GitHubAuthenticator
	)
	if s.config.AuthEnabled() {
		tokens, err = auth.NewTokenService(s.config.JWTSecret, auth.DefaultSessionTTL)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}
		requireUser = auth.RequireAuth(tokens)
		github = auth.NewGitHubProvider(s.config.GitHubClientID, s.config.GitHubClientSecret, s.config.GitHubCallbackURL)
	} else {
		requireUser = auth.LocalUser(s.config.LocalUserID)
	}

	authSvc := service.NewAuthService(s.db.Users(), tokens, s.logger)
	if !s.config.AuthEnabled() {
		if err := authSvc.EnsureLocalUser(context.Background(), s.config.LocalUserID); err != nil {
			return fmt.Errorf("creating local user: %w", err)
		}
	}
	authHandler := handler.NewAuthHandler(github, authSvc, auth.DefaultSessionTTL, s.config.IsProduction(), s.logger)

	if s.config.AuthEnabled() {
		s.router.Route("/auth", func(r chi.Router) {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
			r.Post("/logout", authHandler.HandleLogout)
		})
	}

	// === API Routes ===
	// The handler never touches the database directly, and the service
	// never touches HTTP.
	platforms := handler.NewPlatformHandler(platformSvc, s.logger)
	reports := handler.NewReportHandler(reportSvc, s.logger)
	bounties := handler.NewBountyHandler(bountySvc, s.logger)
	checklists := handler.NewChecklistHandler(checklistSvc, s.logger)
	tips := handler.NewTipHandler(tipSvc, s.logger)
	reading := handler.NewReadingHandler(readingSvc, s.logger)
	integrations := handler.NewIntegrationHandler(credentialSvc, syncSvc, s.logger)
	dashboard := handler.NewDashboardHandler(dashboardSvc, s.logger)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/me", authHandler.HandleMe)
		r.Get("/dashboard", dashboard.HandleOverview)

		r.Route("/platforms", func(r chi.Router) {
			r.Get("/", platforms.HandleList)
			r.Post("/", platforms.HandleCreate)
			r.Get("/{id}", platforms.HandleGet)
			r.Put("/{id}", platforms.HandleUpdate)
			r.Delete("/{id}", platforms.HandleDelete)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/", reports.HandleList)
			r.Post("/", reports.HandleCreate)
			// Registered before /{id} so "stats" isn't taken for an ID.
			r.Get("/stats", reports.HandleStats)
			r.Get("/{id}", reports.HandleGet)
			r.Put("/{id}", reports.HandleUpdate)
			r.Delete("/{id}", reports.HandleDelete)
		})

		r.Route("/bounties", func(r chi.Router) {
			r.Get("/", bounties.HandleList)
			r.Post("/", bounties.HandleCreate)
			r.Get("/{id}", bounties.HandleGet)
			r.Put("/{id}", bounties.HandleUpdate)
			r.Delete("/{id}", bounties.HandleDelete)
			r.Get("/{id}/progress", bounties.HandleProgress)
		})

		r.Route("/checklists", func(r chi.Router) {
			r.Get("/", checklists.HandleList)
			r.Post("/", checklists.HandleCreate)
			r.Get("/{id}", checklists.HandleGet)
			r.Put("/{id}", checklists.HandleUpdate)
			r.Delete("/{id}", checklists.HandleDelete)
			r.Post("/{id}/items", checklists.HandleAddItem)
			r.Patch("/{id}/items/{itemID}/toggle", checklists.HandleToggleItem)
			r.Delete("/{id}/items/{itemID}", checklists.HandleDeleteItem)
		})

		r.Route("/tips", func(r chi.Router) {
			r.Get("/", tips.HandleList)
			r.Post("/", tips.HandleCreate)
			r.Get("/{id}", tips.HandleGet)
			r.Put("/{id}", tips.HandleUpdate)
			r.Delete("/{id}", tips.HandleDelete)
		})

		r.Route("/reading", func(r chi.Router) {
			r.Get("/", reading.HandleList)
			r.Post("/", reading.HandleCreate)
			r.Get("/{id}", reading.HandleGet)
			r.Put("/{id}", reading.HandleUpdate)
			r.Delete("/{id}", reading.HandleDelete)
			r.Patch("/{id}/read", reading.HandleSetRead)
		})

		r.Route("/integrations/{platformID}", func(r chi.Router) {
			r.Get("/credentials", integrations.HandleGetCredentials)
			r.Put("/credentials", integrations.HandlePutCredentials)
			r.Delete("/credentials", integrations.HandleDeleteCredentials)
			r.Post("/sync", integrations.HandleSync)
		})
	})

	s.logger.Info("routes configured",
		slog.Bool("authEnabled", s.config.AuthEnabled()),
		slog.String("hackeroneBaseURL", s.config.HackerOneBaseURL),
	)
	return nil
}

// Start starts the HTTP server and handles graceful shutdown.
//
// GRACEFUL SHUTDOWN:
// 1. Stop accepting new HTTP connections
// 2. Wait for in-flight requests to finish (30s timeout)
// 3. Close the database connection (flushes WAL, releases file lock)
func (s *Server) Start() error {
	defer s.db.Close()

	// WriteTimeout leaves room for a sync: one profile call followed by
	// two concurrent calls, each bounded by HackerOneTimeout.
	srv := &http.Server{
		Addr:         s.config.Addr(),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15*time.Second + 2*s.config.HackerOneTimeout,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", s.config.DBPath),
			slog.String("env", s.config.Env),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
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
