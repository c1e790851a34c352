// Package server sets up the HTTP server, router, and all route definitions.
//
// This package is the "wiring" layer — the composition root where the whole
// dependency chain is assembled in one place:
//
//	sqlite.DB → repositories → services → handlers → routes
//
// Each layer only receives what it needs: services get repository interfaces
// (not the concrete *sqlite.DB), handlers get services, the router gets
// handlers. Keeping the wiring out of main.go means tests can build a full
// server without running the binary.
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

	"github.com/mstrother/barky/internal/auth"
	"github.com/mstrother/barky/internal/handler"
	"github.com/mstrother/barky/internal/middleware"
	sqliteRepo "github.com/mstrother/barky/internal/repository/sqlite"
	"github.com/mstrother/barky/internal/service"
)

// Config holds server configuration, loaded from the environment in main.
type Config struct {
	Port      int
	DBPath    string // path to the SQLite database file (":memory:" in tests)
	JWTSecret string // HMAC secret for access tokens, >= 16 chars
}

// Server owns the router and the database connection. The connection is
// closed during graceful shutdown in Start.
type Server struct {
	router *chi.Mux
	config Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New creates a Server: opens the database, builds every service and handler,
// and wires the routes.
//
// IMPORT ALIAS:
// repository/sqlite is imported as sqliteRepo to avoid confusion with the
// sqlite driver package itself.
func New(cfg Config, logger *slog.Logger) (*Server, error) {
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
		db.Close() // clean up the DB if route setup fails
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// Router exposes the configured router so tests can drive the full stack
// with httptest without binding a socket.
func (s *Server) Router() http.Handler {
	return s.router
}

// Close releases the database connection. Start does this itself during
// graceful shutdown; callers that never Start (tests) use Close directly.
func (s *Server) Close() error {
	return s.db.Close()
}

// setupRoutes configures all middleware and route handlers.
//
// ROUTE STRUCTURE:
//
//	GET    /healthz                   → liveness probe
//	GET    /bookmarks                 → list (?ordering=&limit=&offset=)
//	POST   /bookmarks                 → create                 [auth]
//	GET    /bookmarks/{id}            → retrieve
//	PUT    /bookmarks/{id}            → update                 [auth]
//	DELETE /bookmarks/{id}            → delete                 [auth]
//	GET    /snippets                  → list
//	POST   /snippets                  → create                 [auth]
//	GET    /snippets/{id}             → retrieve
//	GET    /snippets/{id}/highlight   → highlighted HTML
//	PUT    /snippets/{id}             → update                 [auth + owner]
//	DELETE /snippets/{id}             → delete                 [auth + owner]
//	GET    /users , /users/{id}       → list / retrieve
//	POST   /users                     → register (open)
//	PUT    /users/{id}                → update                 [auth]
//	DELETE /users/{id}                → delete                 [auth]
//	POST   /auth/login , /auth/logout → session management
//	GET    /auth/me                   → current account        [auth]
//
// StripSlashes makes /bookmarks/ and /bookmarks equivalent — long-time
// clients of this API use trailing slashes on every path.
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RealIP)       // real client IP from X-Forwarded-For
	s.router.Use(chimiddleware.Recoverer)    // panics become 500s, not crashes
	s.router.Use(chimiddleware.StripSlashes) // /bookmarks/ → /bookmarks
	s.router.Use(middleware.Logger(s.logger))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	// Repositories are views over the one connection pool.
	bookmarkService := service.NewBookmarkService(s.db.Bookmarks(), s.logger)
	snippetService := service.NewSnippetService(s.db.Snippets(), s.db.Users(), s.logger)
	userService := service.NewUserService(s.db.Users(), passwords, s.logger)

	bookmarkHandler := handler.NewBookmarkHandler(bookmarkService, s.logger)
	snippetHandler := handler.NewSnippetHandler(snippetService, s.logger)
	userHandler := handler.NewUserHandler(userService, s.logger)
	authHandler := handler.NewAuthHandler(userService, tokens, s.logger)

	requireAuth := auth.RequireAuth(tokens)
	optionalAuth := auth.OptionalAuth(tokens)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router.Route("/bookmarks", func(r chi.Router) {
		r.Get("/", bookmarkHandler.HandleList)
		r.Get("/{id}", bookmarkHandler.HandleGetByID)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", bookmarkHandler.HandleCreate)
			r.Put("/{id}", bookmarkHandler.HandleUpdate)
			r.Delete("/{id}", bookmarkHandler.HandleDelete)
		})
	})

	s.router.Route("/snippets", func(r chi.Router) {
		// Reads are public. OptionalAuth still resolves the identity when a
		// token is present so the handlers know who is asking.
		r.Group(func(r chi.Router) {
			r.Use(optionalAuth)
			r.Get("/", snippetHandler.HandleList)
			r.Get("/{id}", snippetHandler.HandleGetByID)
			r.Get("/{id}/highlight", snippetHandler.HandleHighlight)
		})

		// Writes need a valid token; the service layer adds the per-object
		// ownership check for update and delete.
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", snippetHandler.HandleCreate)
			r.Put("/{id}", snippetHandler.HandleUpdate)
			r.Delete("/{id}", snippetHandler.HandleDelete)
		})
	})

	s.router.Route("/users", func(r chi.Router) {
		r.Get("/", userHandler.HandleList)
		r.Get("/{id}", userHandler.HandleGetByID)
		r.Post("/", userHandler.HandleCreate) // registration — must stay open

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Put("/{id}", userHandler.HandleUpdate)
			r.Delete("/{id}", userHandler.HandleDelete)
		})
	})

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/me", authHandler.HandleMe)
		})
	})

	return nil
}

// Start runs the HTTP server until SIGINT/SIGTERM, then shuts down
// gracefully: stop accepting connections, give in-flight requests 30 seconds,
// close the database (flushes the WAL, releases the file lock).
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

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
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
