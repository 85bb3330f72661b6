package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"hooksign/internal/audit"
	"hooksign/internal/profile"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const (
	// HTTP server timeouts
	HTTPReadTimeout  = 10 * time.Second
	HTTPWriteTimeout = 10 * time.Second
	HTTPIdleTimeout  = 60 * time.Second

	// Request timeout for middleware
	RequestTimeout = 30 * time.Second

	// Rate limiting - requests per minute
	GlobalRateLimit = 120
	SignRateLimit   = 60
)

// Server represents the HTTP server
type Server struct {
	Registry *profile.Registry
	Audit    *audit.Log
	Logger   *slog.Logger
	TestMode bool
}

// NewServer creates a new server instance
func NewServer(registry *profile.Registry, auditLog *audit.Log, logger *slog.Logger, testMode bool) *Server {
	return &Server{
		Registry: registry,
		Audit:    auditLog,
		Logger:   logger,
		TestMode: testMode,
	}
}

// Router creates and configures the HTTP router
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(RequestTimeout))

	// Logging middleware
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				s.Logger.Info("http_request",
					"method", r.Method,
					"path", r.URL.Path,
					"status", ww.Status(),
					"duration_ms", time.Since(start).Milliseconds())
			}()

			next.ServeHTTP(ww, r)
		})
	})

	// Rate limiting middleware (only if not in test mode)
	if !s.TestMode {
		r.Use(NewRateLimitMiddleware(GlobalRateLimit, s.Logger))
	}

	// Routes
	r.Get("/health", s.HandleHealth)
	r.Get("/audit/{profileName}", s.HandleAudit)

	// Signing route with stricter rate limit
	if !s.TestMode {
		r.With(NewSignRateLimitMiddleware(SignRateLimit, s.Logger)).Post("/sign/{profileName}", s.HandleSign)
	} else {
		r.Post("/sign/{profileName}", s.HandleSign)
	}

	return r
}

// Start starts the HTTP server
func (s *Server) Start(host string, port int) error {
	addr := fmt.Sprintf("%s:%d", host, port)
	s.Logger.Info("Starting server", "addr", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  HTTPReadTimeout,
		WriteTimeout: HTTPWriteTimeout,
		IdleTimeout:  HTTPIdleTimeout,
	}

	return server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.Audit != nil {
		return s.Audit.Close()
	}
	return nil
}
