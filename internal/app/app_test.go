package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/config"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/testutil"
)

// TestNew tests wiring from files on disk through to an allocation.
//
// WHY: This is the only test that runs the real CSV transport under the
// services, the way the server does.
func TestNew(t *testing.T) {
	dir := t.TempDir()
	portfolio := `
reporting_currency: TWD
taxonomy: [Domestic ETF, Foreign ETF]
targets: {Domestic ETF: 50, Foreign ETF: 50}
sources:
  - id: local
    transport: csv
    document: local.csv
    schema:
      category:     { keywords: [category] }
      market_value: { keywords: [value] }
  - id: us
    transport: csv
    document: us.csv
    currency: USD
    category: Foreign ETF
    schema:
      market_value: { keywords: [value] }
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portfolio.yaml"), []byte(portfolio), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "local.csv"), []byte("Category,Value\nDomestic ETF,\"64,000\"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "us.csv"), []byte("Ticker,Value\nVTI,2000\n"), 0o600))

	cfg := &config.Config{
		Portfolio: config.PortfolioConfig{File: filepath.Join(dir, "portfolio.yaml"), DataDir: dir},
		FX:        config.FXConfig{FallbackRate: config.DefaultFXFallbackRate},
	}

	a, err := New(cfg, testutil.NewMockRateProvider(), zerolog.Nop())
	require.NoError(t, err)

	alloc, report := a.Services.Allocation.Rebalance(context.Background())
	assert.Equal(t, 128000.0, alloc.Total)
	assert.Empty(t, report.Suggestions)
	assert.NoError(t, a.Services.System.CheckHealth())
}

func TestNew_InvalidPortfolio(t *testing.T) {
	path := filepath.Join(t.TempDir(), "portfolio.yaml")
	require.NoError(t, os.WriteFile(path, []byte("reporting_currency: ???\n"), 0o600))

	_, err := New(&config.Config{Portfolio: config.PortfolioConfig{File: path}}, testutil.NewMockRateProvider(), zerolog.Nop())
	assert.Error(t, err)
}
