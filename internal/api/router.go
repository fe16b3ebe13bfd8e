package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/api/handlers"
	custommiddleware "github.com/ndewijer/Investment-Allocation-Backend/internal/api/middleware"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/config"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/service"
)

// Services groups the services the router exposes.
type Services struct {
	System     *service.SystemService
	Holdings   *service.HoldingsService
	Ledger     *service.LedgerService
	Allocation *service.AllocationService
	Currency   *service.CurrencyService
}

// NewRouter creates and configures the HTTP router.
// metricsHandler is mounted at /metrics when not nil.
func NewRouter(svc Services, metricsHandler http.Handler, cfg *config.Config, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(custommiddleware.Logger(logger))
	r.Use(middleware.Recoverer)

	// CORS middleware
	corsMiddleware := custommiddleware.NewCORS(cfg.CORS.AllowedOrigins)
	r.Use(corsMiddleware.Handler)

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		systemHandler := handlers.NewSystemHandler(svc.System)

		// System namespace
		r.Route("/system", func(r chi.Router) {
			r.Get("/health", systemHandler.Health)
			r.Get("/version", systemHandler.Version)
		})

		r.Route("/sources", func(r chi.Router) {
			sourcesHandler := handlers.NewSourcesHandler(svc.Holdings, svc.Ledger)
			r.Get("/", sourcesHandler.Sources)
			r.Route("/{sourceID}", func(r chi.Router) {
				r.Use(custommiddleware.ValidateSourceID)
				r.Get("/holdings", sourcesHandler.Holdings)
				r.Post("/rows", sourcesHandler.AppendRows)
			})
		})

		r.Route("/allocation", func(r chi.Router) {
			allocationHandler := handlers.NewAllocationHandler(svc.Allocation)
			r.Get("/", allocationHandler.Allocation)
			r.Get("/rebalance", allocationHandler.Rebalance)
		})

		r.Get("/fx/{currency}", handlers.NewFXHandler(svc.Currency).Rate)
		r.Post("/cache/refresh", systemHandler.RefreshCache)
	})

	return r
}
