// Package server wires stores, services, handlers and middleware into an
// HTTP server with graceful shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iudanet/bloglist/internal/config"
	"github.com/iudanet/bloglist/internal/server/auth"
	"github.com/iudanet/bloglist/internal/server/handlers"
	"github.com/iudanet/bloglist/internal/server/jwt"
	"github.com/iudanet/bloglist/internal/server/middleware"
	"github.com/iudanet/bloglist/internal/server/service"
	"github.com/iudanet/bloglist/internal/server/storage"
)

// Server is the bloglist HTTP server
type Server struct {
	logger          *slog.Logger
	handler         http.Handler
	limiters        []*middleware.RateLimiter
	address         string
	shutdownTimeout time.Duration
}

// New builds the server on top of store. Store lifetime is owned by the caller.
func New(cfg *config.Config, logger *slog.Logger, store storage.Store, version string) *Server {
	tokens := jwt.NewService([]byte(cfg.JWTSecret), cfg.TokenTTL)
	creds := auth.NewCredentials(store, tokens, cfg.BcryptCost)
	authz := auth.NewAuthorizer(creds)

	postService := service.NewPostService(logger, store, authz)
	userService := service.NewUserService(logger, store, store, creds)

	postHandler := handlers.NewPostHandler(logger, postService)
	userHandler := handlers.NewUserHandler(logger, userService)
	healthHandler := handlers.NewHealthHandler(logger, store, version)

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// отдельные бюджеты на вход и регистрацию
	loginLimiter := middleware.NewRateLimiter(cfg.LoginRate, cfg.LoginWindow)
	registerLimiter := middleware.NewRateLimiter(cfg.LoginRate, cfg.LoginWindow)
	limitLogin := middleware.RateLimitMiddleware(loginLimiter, logger)
	limitRegister := middleware.RateLimitMiddleware(registerLimiter, logger)

	mux := http.NewServeMux()
	metrics := middleware.NewMetrics(reg).WithRoutes(mux)
	mux.HandleFunc("GET /api/v1/health", healthHandler.Health)
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))

	mux.HandleFunc("GET /api/v1/blogs", postHandler.List)
	mux.HandleFunc("POST /api/v1/blogs", postHandler.Create)
	mux.HandleFunc("GET /api/v1/blogs/stats", postHandler.Stats)
	mux.HandleFunc("GET /api/v1/blogs/{id}", postHandler.Get)
	mux.HandleFunc("PUT /api/v1/blogs/{id}", postHandler.Update)
	mux.HandleFunc("DELETE /api/v1/blogs/{id}", postHandler.Delete)

	mux.HandleFunc("GET /api/v1/users", userHandler.List)
	mux.Handle("POST /api/v1/users", limitRegister(http.HandlerFunc(userHandler.Create)))
	mux.Handle("POST /api/v1/login", limitLogin(http.HandlerFunc(userHandler.Login)))

	// Цепочка: recovery -> logging -> metrics -> token -> mux
	// metrics снаружи token, чтобы 401 за кривой Authorization тоже считались;
	// маршрут для них ищется через mux.Handler
	var handler http.Handler = mux
	handler = middleware.TokenMiddleware(logger)(handler)
	handler = metrics.Middleware(handler)
	handler = middleware.LoggingWithSkip(logger, []string{"/metrics", "/api/v1/health"})(handler)
	handler = middleware.RecoveryMiddleware(logger)(handler)

	return &Server{
		logger:          logger,
		handler:         handler,
		limiters:        []*middleware.RateLimiter{loginLimiter, registerLimiter},
		address:         cfg.Address,
		shutdownTimeout: cfg.ShutdownTimeout,
	}
}

// Handler returns the root HTTP handler
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.address, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.stopLimiters()

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelError),
	}

	errC := make(chan error, 1)
	go func() {
		s.logger.Info("Server started", slog.String("address", ln.Addr().String()))
		errC <- srv.Serve(ln)
	}()

	select {
	case err := <-errC:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down the server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("Server stopped")
	return nil
}

func (s *Server) stopLimiters() {
	for _, l := range s.limiters {
		l.Stop()
	}
}
