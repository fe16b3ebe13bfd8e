package testutil

import (
	"testing"

	"github.com/rs/zerolog"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/cache"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/config"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/metrics"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/service"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/sheet"
)

// TestPortfolioYAML is a portfolio with one source per valuation policy.
//
//   - tw-broker: domestic workbook, category column, TWD
//   - us-broker: US brokerage CSV, category column, USD
//   - uk-running: running-total sheet, fixed category, GBP
const TestPortfolioYAML = `
reporting_currency: TWD
taxonomy:
  - Domestic ETF
  - Domestic Equity
  - Foreign ETF
  - Foreign Equity
  - Foreign Bond ETF
category_aliases:
  bond etf: Foreign Bond ETF
targets:
  Domestic ETF: 20
  Domestic Equity: 10
  Foreign ETF: 40
  Foreign Equity: 10
  Foreign Bond ETF: 20
fx:
  default_fallback: 31
sources:
  - id: tw-broker
    transport: workbook
    document: tw.xlsx
    range: Holdings!A1:F
    owner: household
    schema:
      symbol:       { keywords: [symbol] }
      name:         { keywords: [name] }
      category:     { keywords: [category] }
      quantity:     { keywords: [shares] }
      cost_basis:   { keywords: [cost] }
      market_value: { keywords: [market, value] }
  - id: us-broker
    transport: csv
    document: us.csv
    currency: USD
    owner: household
    hints: [usd]
    schema:
      symbol:       { keywords: [ticker] }
      category:     { keywords: [class] }
      cost_basis:   { keywords: [cost] }
      market_value: { keywords: [value] }
  - id: uk-running
    transport: csv
    document: uk.csv
    currency: GBP
    header: false
    policy: last_positive
    category: Foreign Equity
    schema:
      market_value: { column: B }
`

// Env wires every service against in-memory collaborators.
type Env struct {
	Portfolio  *config.Portfolio
	Transport  *MemoryTransport
	Transports *sheet.Registry
	Cache      *cache.Cache
	Clock      *FakeClock
	Rates      *MockRateProvider
	Metrics    *metrics.Registry

	Reader     *service.SourceReaderService
	FX         *service.CurrencyService
	Allocation *service.AllocationService
	Holdings   *service.HoldingsService
	Ledger     *service.LedgerService
	System     *service.SystemService
}

// NewTestEnv parses portfolioYAML and builds the services. The memory transport
// is registered under both the workbook and csv names.
func NewTestEnv(t *testing.T, portfolioYAML string) *Env {
	t.Helper()

	portfolio, err := config.ParsePortfolio([]byte(portfolioYAML), config.DefaultFXFallbackRate)
	if err != nil {
		t.Fatalf("ParsePortfolio() returned unexpected error: %v", err)
	}

	transport := NewMemoryTransport()
	transports := sheet.NewRegistry()
	transports.Register(sheet.TransportWorkbook, transport)
	transports.Register(sheet.TransportCSV, transport)

	clock := NewFakeClock()
	reg := metrics.NewRegistry()
	c := cache.New(clock, nil)
	c.SetObserver(reg)
	rates := NewMockRateProvider()
	logger := zerolog.Nop()

	reader := service.NewSourceReaderService(transports, c, reg, logger)
	fx := service.NewCurrencyService(rates, c, portfolio.ReportingCurrency, portfolio.FallbackRate, reg, logger)

	return &Env{
		Portfolio:  portfolio,
		Transport:  transport,
		Transports: transports,
		Cache:      c,
		Clock:      clock,
		Rates:      rates,
		Metrics:    reg,
		Reader:     reader,
		FX:         fx,
		Allocation: service.NewAllocationService(portfolio, reader, fx, clock, logger),
		Holdings:   service.NewHoldingsService(portfolio, reader),
		Ledger:     service.NewLedgerService(portfolio, transports, clock, logger),
		System:     service.NewSystemService(portfolio, t.TempDir(), c, reg),
	}
}

// Source returns the named source or fails the test.
func (e *Env) Source(t *testing.T, id string) model.SourceConfig {
	t.Helper()
	src, ok := e.Portfolio.Source(id)
	if !ok {
		t.Fatalf("source %q not configured", id)
	}
	return src
}
