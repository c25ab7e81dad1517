package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"ticket-api/internal/auth"
	"ticket-api/internal/config"
	"ticket-api/internal/logger"
	"ticket-api/internal/tickets/ticket_api"
	"ticket-api/internal/utils"
)

const Banner = "Ticket API."

// HealthChecker is satisfied by the ticket service.
type HealthChecker interface {
	Healthy(ctx context.Context) error
}

// NewRouter wires middleware and routes. Everything under /tickets requires the
// shared bearer token.
func NewRouter(cfg *config.Config, tickets *ticket_api.Handler, health HealthChecker, log *logger.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestLogger(log))
	r.Use(middleware.Recoverer)
	r.Use(CORS(NewOriginPolicy(cfg.CORS.AllowedOrigins), log))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusNotFound, "Not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	// --- Public Routes ---
	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(Banner))
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := health.Healthy(ctx); err != nil {
			log.Error("HEALTH", fmt.Sprintf("Database ping failed: %v", err))
			utils.WriteError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(cfg.Auth.APIToken, log))
		tickets.RegisterRoutes(r)
	})

	return r
}

// NewHTTPServer applies the configured timeouts to an http.Server.
func NewHTTPServer(cfg config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         cfg.Addr(),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}
