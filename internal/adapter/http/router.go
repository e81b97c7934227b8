package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/dealerops/dealerledger/internal/adapter/http/handler"
	"github.com/dealerops/dealerledger/internal/adapter/http/middleware"
	"github.com/dealerops/dealerledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	PostingHandler    *handler.PostingHandler
	AdjustmentHandler *handler.AdjustmentHandler
	ProfitHandler     *handler.ProfitHandler
	CapitalHandler    *handler.CapitalHandler
	ClosureHandler    *handler.ClosureHandler
	RecordHandler     *handler.RecordHandler
	HealthHandler     *handler.HealthHandler

	Logger           zerolog.Logger
	IdempotencyStore usecase.IdempotencyStore
	RateLimiter      *middleware.RateLimiter
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

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and observability endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Business event postings
		r.Post("/postings", cfg.PostingHandler.Create)

		// Retroactive adjustments
		r.Route("/adjustments", func(r chi.Router) {
			r.Post("/", cfg.AdjustmentHandler.Submit)
			r.Get("/", cfg.AdjustmentHandler.List)
			r.Get("/{id}", cfg.AdjustmentHandler.Get)
			r.Post("/{id}/approve", cfg.AdjustmentHandler.Approve)
			r.Post("/{id}/reject", cfg.AdjustmentHandler.Reject)
		})

		// Profit deduction ledger
		r.Route("/profit", func(r chi.Router) {
			r.Post("/deductions", cfg.ProfitHandler.Deduct)
			r.Post("/restorations", cfg.ProfitHandler.Restore)
			r.Get("/summary", cfg.ProfitHandler.Summary)
		})

		// Company capital
		r.Route("/capital/{companyID}", func(r chi.Router) {
			r.Get("/", cfg.CapitalHandler.Balance)
			r.Get("/history", cfg.CapitalHandler.History)
			r.Post("/adjustments", cfg.CapitalHandler.Adjust)
			r.Post("/reductions", cfg.CapitalHandler.Reduce)
		})

		// Monthly closures
		r.Route("/closures", func(r chi.Router) {
			r.Post("/", cfg.ClosureHandler.Close)
			r.Get("/", cfg.ClosureHandler.List)
			r.Get("/{period}", cfg.ClosureHandler.Status)
		})

		// Record lookup across live, history and combined tiers
		r.Get("/records", cfg.RecordHandler.Locate)
	})

	return r
}
