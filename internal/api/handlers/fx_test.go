package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/testutil"
)

func TestFXHandler_Rate(t *testing.T) {
	t.Run("returns a live quote", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
		handler := NewFXHandler(env.FX)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fx/usd", map[string]string{"currency": "usd"})
		w := httptest.NewRecorder()
		handler.Rate(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp RateResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.Equal(t, 32.0, resp.Rate)
		assert.Equal(t, "TWD", resp.Reporting)
		assert.False(t, resp.Fallback)
		assert.Nil(t, resp.Warning)
	})

	t.Run("flags fallback quotes", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
		env.Rates.WithError(errors.New("down"))
		handler := NewFXHandler(env.FX)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fx/USD", map[string]string{"currency": "USD"})
		w := httptest.NewRecorder()
		handler.Rate(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp RateResponse
		require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
		assert.True(t, resp.Fallback)
		require.NotNil(t, resp.Warning)
		assert.Equal(t, model.WarningFXFallback, resp.Warning.Kind)
	})

	t.Run("rejects unknown currencies", func(t *testing.T) {
		env := testutil.NewTestEnv(t, testutil.TestPortfolioYAML)
		handler := NewFXHandler(env.FX)

		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/fx/ZZZ", map[string]string{"currency": "ZZZ"})
		w := httptest.NewRecorder()
		handler.Rate(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
