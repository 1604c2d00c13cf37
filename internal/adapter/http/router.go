package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/finkit/corebank/internal/adapter/http/handler"
	"github.com/finkit/corebank/internal/adapter/http/middleware"
	"github.com/finkit/corebank/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PricingHandler        *handler.PricingHandler
	MovementHandler       *handler.MovementHandler
	LedgerHandler         *handler.LedgerHandler
	LimitHandler          *handler.LimitHandler
	AccrualHandler        *handler.AccrualHandler
	ReconciliationHandler *handler.ReconciliationHandler
	HealthHandler         *handler.HealthHandler
	IdempotencyStore      usecase.IdempotencyStore
	IdempotencyTTL        time.Duration
	Logger                zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Pricing
		r.Post("/pricing/quote", cfg.PricingHandler.Quote)

		// Movements
		r.Route("/movements", func(r chi.Router) {
			r.Post("/", cfg.MovementHandler.Create)
			r.Get("/{id}", cfg.MovementHandler.Get)
		})

		// Journal batches
		r.Route("/batches", func(r chi.Router) {
			r.Post("/", cfg.LedgerHandler.PostBatch)
			r.Get("/{ref}", cfg.LedgerHandler.GetBatch)
			r.Post("/{ref}/reverse", cfg.LedgerHandler.Reverse)
		})

		// Accounts
		r.Route("/accounts", func(r chi.Router) {
			r.Get("/{code}/balance", cfg.LedgerHandler.GetBalance)
			r.Get("/{code}/journal", cfg.LedgerHandler.Journal)
			r.Post("/{code}/accrue", cfg.AccrualHandler.Accrue)
			r.Get("/{code}/accruals", cfg.AccrualHandler.List)
		})

		// Limits
		r.Route("/limits", func(r chi.Router) {
			r.Post("/reset-due", cfg.LimitHandler.ResetDue)
			r.Get("/{userID}", cfg.LimitHandler.ListByUser)
		})

		// Ledger invariants
		r.Get("/ledger/consistency", cfg.LedgerHandler.CheckConsistency)

		// Reconciliation
		r.Route("/reconciliation", func(r chi.Router) {
			r.Get("/report", cfg.ReconciliationHandler.Report)
			r.Post("/release-stale", cfg.ReconciliationHandler.ReleaseStale)
		})
	})

	return r
}
