package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/borrowbook/internal/adapter/http/handler"
	"github.com/iho/borrowbook/internal/adapter/http/middleware"
	"github.com/iho/borrowbook/internal/infrastructure/auth"
	"github.com/iho/borrowbook/internal/infrastructure/metrics"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AuthHandler   *handler.AuthHandler
	EntryHandler  *handler.EntryHandler
	LedgerHandler *handler.LedgerHandler
	ReportHandler *handler.ReportHandler
	AdminHandler  *handler.AdminHandler
	HealthHandler *handler.HealthHandler

	JWTManager  *auth.JWTManager
	Logger      zerolog.Logger
	Metrics     *metrics.Metrics
	RateLimiter *middleware.RateLimiter
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	requireAuth := middleware.AuthMiddleware(cfg.JWTManager)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", cfg.AuthHandler.Register)
			r.Post("/login", cfg.AuthHandler.Login)
			r.Post("/logout", cfg.AuthHandler.Logout)
			r.Post("/refresh-token", cfg.AuthHandler.Refresh)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/me", cfg.AuthHandler.Me)
			})
		})

		// Entries
		r.Route("/borrow", func(r chi.Router) {
			r.Use(requireAuth)
			r.Post("/", cfg.EntryHandler.Create)
			r.Get("/", cfg.EntryHandler.List)
			r.Put("/{id}", cfg.EntryHandler.Update)
			r.Delete("/{id}", cfg.EntryHandler.Delete)
		})

		// Aggregated views
		r.Route("/ledger", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/overview", cfg.LedgerHandler.Overview)
			r.Get("/people/{name}", cfg.LedgerHandler.CounterpartyDetail)
		})

		// Reports
		r.Group(func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/reports/pdf", cfg.ReportHandler.ExportPDF)
		})

		// Admin
		r.Route("/admin", func(r chi.Router) {
			r.Use(requireAuth)
			r.Use(middleware.RequireAdmin)
			r.Get("/users", cfg.AdminHandler.ListUsers)
			r.Post("/promote", cfg.AdminHandler.Promote)
		})
	})

	return r
}
