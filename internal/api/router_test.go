package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/config"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/testutil"
)

// TestNewRouter tests that every route is mounted behind the shared middleware.
func TestNewRouter(t *testing.T) {
	env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
	env.Transport.SetDocument("tw.xlsx", [][]string{{"Symbol", "Category", "Market Value"}, {"0050", "Domestic ETF", "100"}})
	cfg := &config.Config{CORS: config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}}}

	router := NewRouter(Services{
		System:     env.System,
		Holdings:   env.Holdings,
		Ledger:     env.Ledger,
		Allocation: env.Allocation,
		Currency:   env.FX,
	}, env.Metrics.Handler(), cfg, zerolog.Nop())

	tests := []struct {
		method string
		path   string
		body   string
		status int
	}{
		{http.MethodGet, "/api/system/health", "", http.StatusOK},
		{http.MethodGet, "/api/system/version", "", http.StatusOK},
		{http.MethodGet, "/api/sources", "", http.StatusOK},
		{http.MethodGet, "/api/sources/tw-broker/holdings", "", http.StatusOK},
		{http.MethodGet, "/api/sources/-bad/holdings", "", http.StatusBadRequest},
		{http.MethodGet, "/api/sources/unknown/holdings", "", http.StatusNotFound},
		{http.MethodPost, "/api/sources/tw-broker/rows", `{"rows": [["a", 1]]}`, http.StatusCreated},
		{http.MethodGet, "/api/allocation", "", http.StatusOK},
		{http.MethodGet, "/api/allocation/rebalance", "", http.StatusOK},
		{http.MethodGet, "/api/fx/USD", "", http.StatusOK},
		{http.MethodPost, "/api/cache/refresh", "", http.StatusOK},
		{http.MethodGet, "/metrics", "", http.StatusOK},
		{http.MethodDelete, "/api/allocation", "", http.StatusMethodNotAllowed},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}

	t.Run("metrics expose cache counters", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Contains(t, w.Body.String(), "cache_")
	})
}
