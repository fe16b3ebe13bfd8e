// Package app wires configuration, transports and services together for the
// server and the CLI.
package app

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/api"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/cache"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/config"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/metrics"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/service"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/sheet"
)

// App holds the wired services.
type App struct {
	Config    *config.Config
	Portfolio *config.Portfolio
	Metrics   *metrics.Registry
	Cache     *cache.Cache
	Services  api.Services
}

// New loads the portfolio file named by cfg and builds every service.
// provider supplies FX quotes; pass yahoo.NewFinanceClient() outside tests.
func New(cfg *config.Config, provider service.RateProvider, logger zerolog.Logger) (*App, error) {
	portfolio, err := config.LoadPortfolio(cfg.Portfolio.File, cfg.FX.FallbackRate)
	if err != nil {
		return nil, fmt.Errorf("loading portfolio: %w", err)
	}
	return NewWithPortfolio(cfg, portfolio, sheet.DefaultRegistry(cfg.Portfolio.DataDir), provider, logger), nil
}

// NewWithPortfolio builds every service from an already loaded portfolio.
func NewWithPortfolio(cfg *config.Config, portfolio *config.Portfolio, transports *sheet.Registry, provider service.RateProvider, logger zerolog.Logger) *App {
	reg := metrics.NewRegistry()
	c := cache.New(cache.SystemClock{}, map[cache.Kind]time.Duration{
		cache.KindHoldings: cfg.Cache.HoldingsTTL,
		cache.KindFX:       cfg.Cache.FXTTL,
	})
	c.SetObserver(reg)

	reader := service.NewSourceReaderService(transports, c, reg, logger)
	fx := service.NewCurrencyService(provider, c, portfolio.ReportingCurrency, portfolio.FallbackRate, reg, logger)

	logger.Info().
		Str("portfolio", cfg.Portfolio.File).
		Str("reporting_currency", portfolio.ReportingCurrency).
		Int("sources", len(portfolio.Sources)).
		Msg("portfolio loaded")

	return &App{
		Config:    cfg,
		Portfolio: portfolio,
		Metrics:   reg,
		Cache:     c,
		Services: api.Services{
			System:     service.NewSystemService(portfolio, cfg.Portfolio.DataDir, c, reg),
			Holdings:   service.NewHoldingsService(portfolio, reader),
			Ledger:     service.NewLedgerService(portfolio, transports, cache.SystemClock{}, logger),
			Allocation: service.NewAllocationService(portfolio, reader, fx, cache.SystemClock{}, logger),
			Currency:   fx,
		},
	}
}
