package service_test

import (
	"context"
	"path/filepath"
	"testing"

	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/cache"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/service"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/testutil"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/version"
)

func TestSystemService(t *testing.T) {
	t.Run("healthy with a data directory", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
		assert.NoError(t, env.System.CheckHealth())
	})

	t.Run("unhealthy without a data directory", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
		svc := service.NewSystemService(env.Portfolio, filepath.Join(t.TempDir(), "gone"), env.Cache, nil)
		assert.Error(t, svc.CheckHealth())
	})

	t.Run("reports version and features", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)

		info := env.System.CheckVersion()

		assert.Equal(t, version.Version, info.AppVersion)
		assert.Equal(t, "TWD", info.ReportingCurrency)
		assert.Equal(t, 3, info.Sources)
		assert.True(t, info.Features["fx_conversion"])
		assert.True(t, info.Features["rebalance"])
	})

	// WHY: Refresh is the only way to see an append before the TTL runs out,
	// so it must drop every entry at once.
	t.Run("refresh clears every entry", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
		env.Transport.SetDocument("tw.xlsx", twHoldings)
		env.Reader.Read(context.Background(), env.Source(t, "tw-broker"))
		env.FX.Quote(context.Background(), "USD")

		assert.Equal(t, 2, env.System.RefreshCache())
		assert.Equal(t, 0, env.Cache.Len())
		assert.Equal(t, 1.0, promtestutil.ToFloat64(env.Metrics.CacheClears))

		env.Reader.Read(context.Background(), env.Source(t, "tw-broker"))
		assert.Equal(t, 2, env.Transport.Reads())
		_, ok := env.Cache.Get(cache.Key{Source: "tw-broker", Kind: cache.KindHoldings})
		assert.True(t, ok)
	})
}
