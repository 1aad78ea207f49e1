// Package server sets up the HTTP server, router, and all route definitions.
//
// SERVER ARCHITECTURE:
// This package is the "wiring" layer. It decides which URL patterns map to
// which handler, which guard protects each route, and how the server starts
// and stops.
//
// DEPENDENCY INJECTION FLOW:
//
//	config.Config ─→ sqlstore.DB ─→ CompanyStore / JobStore / UserStore
//	                                        │
//	                                        ▼
//	        auth.PasswordService ─→ Company/Job/User/Auth services
//	        auth.TokenService    ─→        │               guards
//	                                        ▼
//	                                   handlers ─→ chi routes
//
// This is the "composition root" pattern: all dependencies are built in
// New, rather than scattered across the codebase.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sakif/jobly/internal/auth"
	"github.com/sakif/jobly/internal/config"
	"github.com/sakif/jobly/internal/handler"
	"github.com/sakif/jobly/internal/middleware"
	"github.com/sakif/jobly/internal/model"
	"github.com/sakif/jobly/internal/query"
	"github.com/sakif/jobly/internal/repository/sqlstore"
	"github.com/sakif/jobly/internal/service"
)

// shutdownTimeout is how long in-flight requests get to finish after
// SIGINT/SIGTERM.
const shutdownTimeout = 30 * time.Second

// Server represents the HTTP server and all its dependencies.
//
// RESOURCE MANAGEMENT:
// The Server owns the database pool. Start closes it after shutdown; callers
// that never Start (tests) must call Close.
type Server struct {
	router *chi.Mux
	config config.Config
	logger *slog.Logger
	db     *sqlstore.DB
	tokens *auth.TokenService
}

// New opens the database, builds every service and handler and mounts the
// routes. The database is PostgreSQL when cfg.DatabaseURL is set and SQLite
// at cfg.DBPath otherwise.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := openDatabase(cfg)
	if err != nil {
		return nil, err
	}

	tokens, err := auth.NewTokenService(cfg.SecretKey, cfg.TokenTTL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		tokens: tokens,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func openDatabase(cfg config.Config) (*sqlstore.DB, error) {
	if cfg.UsePostgres() {
		db, err := sqlstore.New(cfg.DatabaseURL, query.PostgresDialect{})
		if err != nil {
			return nil, fmt.Errorf("opening postgres database: %w", err)
		}
		return db, nil
	}

	// os.MkdirAll is like `mkdir -p`. Skipped for ":memory:" and bare file names.
	if dir := filepath.Dir(cfg.DBPath); cfg.DBPath != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
		}
	}

	db, err := sqlstore.New(cfg.DBPath, query.SQLiteDialect{})
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	return db, nil
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /health               → liveness + DB ping
//	POST   /login                → {"token"}
//	GET    /companies            → search              (public)
//	GET    /companies/{handle}   → company + jobs      (public)
//	POST   /companies            → create              (admin)
//	PATCH  /companies/{handle}   → partial update      (admin)
//	DELETE /companies/{handle}   → delete              (admin)
//	GET    /jobs                 → search              (public)
//	GET    /jobs/{id}            → one job             (public)
//	POST   /jobs                 → create              (admin)
//	PATCH  /jobs/{id}            → partial update      (admin)
//	DELETE /jobs/{id}            → delete              (admin)
//	GET    /users                → list                (logged in)
//	GET    /users/{username}     → one user            (logged in)
//	POST   /users                → register            (public; is_admin needs an admin token)
//	PATCH  /users/{username}     → partial update      (that user)
//	DELETE /users/{username}     → delete              (that user)
//
// MIDDLEWARE ORDER MATTERS:
// RequestID must run before Logger so the log line can carry the id, and
// Recoverer sits inside Logger so a recovered panic is still logged as 500.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)

	s.router.NotFound(handler.NotFound)
	s.router.MethodNotAllowed(handler.MethodNotAllowed)

	passwords, err := auth.NewPasswordServiceWithCost(s.config.BcryptCost)
	if err != nil {
		return fmt.Errorf("creating password service: %w", err)
	}

	// DEPENDENCY CHAIN:
	//   store (repository interface) → service → handler
	// The handler never touches the database; the service never touches HTTP.
	companyStore, jobStore, userStore := s.db.Companies(), s.db.Jobs(), s.db.Users()

	companies := handler.NewCompanyHandler(service.NewCompanyService(companyStore, s.logger), s.logger)
	jobs := handler.NewJobHandler(service.NewJobService(jobStore, s.logger), s.logger)
	userService := service.NewUserService(userStore, passwords, s.logger)
	if err := s.ensureAdmin(userService); err != nil {
		return err
	}

	users := handler.NewUserHandler(userService, s.logger)
	login := handler.NewAuthHandler(service.NewAuthService(userStore, s.tokens, passwords, s.logger), s.logger)
	health := handler.NewHealthHandler(s.db, s.logger)

	isAdmin := auth.RequireAdmin(s.tokens)
	loggedIn := auth.RequireLoggedIn(s.tokens)
	correctUser := auth.RequireCorrectUser(s.tokens, "username")
	optionalClaims := auth.OptionalClaims(s.tokens)

	s.router.Get("/health", health.HandleHealth)
	s.router.Post("/login", login.HandleLogin)

	s.router.Route("/companies", func(r chi.Router) {
		r.Get("/", companies.HandleList)
		r.Get("/{handle}", companies.HandleGet)
		r.With(isAdmin).Post("/", companies.HandleCreate)
		r.With(isAdmin).Patch("/{handle}", companies.HandleUpdate)
		r.With(isAdmin).Delete("/{handle}", companies.HandleDelete)
	})

	s.router.Route("/jobs", func(r chi.Router) {
		r.Get("/", jobs.HandleList)
		r.Get("/{id}", jobs.HandleGet)
		r.With(isAdmin).Post("/", jobs.HandleCreate)
		r.With(isAdmin).Patch("/{id}", jobs.HandleUpdate)
		r.With(isAdmin).Delete("/{id}", jobs.HandleDelete)
	})

	s.router.Route("/users", func(r chi.Router) {
		r.With(optionalClaims).Post("/", users.HandleCreate)
		r.With(loggedIn).Get("/", users.HandleList)
		r.With(loggedIn).Get("/{username}", users.HandleGet)
		r.With(correctUser).Patch("/{username}", users.HandleUpdate)
		r.With(correctUser).Delete("/{username}", users.HandleDelete)
	})

	return nil
}

// ensureAdmin creates the configured bootstrap admin, if any.
func (s *Server) ensureAdmin(users *service.UserService) error {
	admin := s.config.Admin
	if !admin.Enabled() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return users.EnsureAdmin(ctx, model.NewUser{
		Username:  admin.Username,
		Password:  admin.Password,
		FirstName: "Admin",
		LastName:  "User",
		Email:     admin.Email,
	})
}

// Handler exposes the router, e.g. for httptest.NewServer.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database pool.
func (s *Server) Close() error {
	return s.db.Close()
}

// Start starts the HTTP server and blocks until it stops.
//
// GRACEFUL SHUTDOWN:
//  1. Stop accepting new HTTP connections
//  2. Wait for in-flight requests to finish (30s timeout)
//  3. Close the database pool (deferred, so it runs on every return path)
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serverErrors := make(chan error, 1)

	go func() {
		database := "sqlite:" + s.config.DBPath
		if s.config.UsePostgres() {
			database = "postgres"
		}
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("database", database),
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

		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
