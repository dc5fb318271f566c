package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/mmkt/moneymarket/internal/adapter/http/handler"
	"github.com/mmkt/moneymarket/internal/adapter/http/middleware"
	"github.com/mmkt/moneymarket/internal/infrastructure/metrics"
	"github.com/mmkt/moneymarket/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AccountHandler     *handler.AccountHandler
	TransactionHandler *handler.TransactionHandler
	EODHandler         *handler.EODHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	IdempotencyTTL     time.Duration
	Logger             zerolog.Logger
	Metrics            *metrics.Metrics
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Post("/customer", cfg.AccountHandler.OpenCustomer)
			r.Post("/office", cfg.AccountHandler.OpenOffice)
			r.Get("/", cfg.AccountHandler.List)
			r.Get("/{accountNo}", cfg.AccountHandler.Get)
			r.Post("/{accountNo}/close", cfg.AccountHandler.Close)
			r.Get("/{accountNo}/transactions", cfg.TransactionHandler.ListByAccount)
		})

		// Transactions
		r.Route("/transactions", func(r chi.Router) {
			// Idempotency middleware for posting requests
			if cfg.IdempotencyStore != nil {
				idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
				r.Use(idempotencyMiddleware.Wrap)
			}

			r.Post("/entry", cfg.TransactionHandler.CreateEntry)
			r.Post("/validate", cfg.TransactionHandler.ValidateEntry)
			r.Get("/", cfg.TransactionHandler.List)
			r.Get("/{tranId}", cfg.TransactionHandler.Get)
		})

		// End-of-day administration
		r.Route("/admin", func(r chi.Router) {
			r.Post("/run-eod", cfg.EODHandler.Run)
			r.Get("/eod-runs/latest", cfg.EODHandler.Latest)
			r.Get("/eod-runs/{date}", cfg.EODHandler.GetRun)
		})
	})

	return r
}
