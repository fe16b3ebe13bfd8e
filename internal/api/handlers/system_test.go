package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/service"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/testutil"
)

func TestSystemHandler_Health(t *testing.T) {
	t.Run("returns healthy status when the data directory exists", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
		handler := NewSystemHandler(env.System)

		req := httptest.NewRequest(http.MethodGet, "/api/system/health", nil)
		w := httptest.NewRecorder()

		handler.Health(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "healthy", resp.Status)
		assert.Empty(t, resp.Error)
	})

	t.Run("returns 503 when the data directory is missing", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
		svc := service.NewSystemService(env.Portfolio, filepath.Join(t.TempDir(), "missing"), env.Cache, nil)
		handler := NewSystemHandler(svc)

		w := httptest.NewRecorder()
		handler.Health(w, httptest.NewRequest(http.MethodGet, "/api/system/health", nil))

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		var resp HealthResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, "unhealthy", resp.Status)
		assert.NotEmpty(t, resp.Error)
	})
}

func TestSystemHandler_Version(t *testing.T) {
	env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
	handler := NewSystemHandler(env.System)

	w := httptest.NewRecorder()
	handler.Version(w, httptest.NewRequest(http.MethodGet, "/api/system/version", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var info model.VersionInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&info))
	assert.Equal(t, "TWD", info.ReportingCurrency)
	assert.Equal(t, 3, info.Sources)
}

func TestSystemHandler_RefreshCache(t *testing.T) {
	env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
	env.Transport.SetDocument("tw.xlsx", [][]string{{"Symbol", "Category", "Market Value"}, {"0050", "Domestic ETF", "10"}})
	handler := NewSystemHandler(env.System)
	_, err := env.Holdings.Holdings(httptest.NewRequest(http.MethodGet, "/", nil).Context(), "tw-broker")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	handler.RefreshCache(w, httptest.NewRequest(http.MethodPost, "/api/cache/refresh", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp RefreshResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, 1, resp.Cleared)
	assert.Equal(t, 0, env.Cache.Len())
}
