package yahoo

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
)

func f(v float64) *float64 { return &v }

// TestLatestClose tests selection of the most recent usable close.
//
// WHY: Yahoo leaves the current bar null until it settles; the FX rate must come
// from the last bar that actually has a positive close.
func TestLatestClose(t *testing.T) {
	t.Run("skips trailing null bars", func(t *testing.T) {
		resp := Response{Chart: Chart{Result: []Result{{
			Timestamp: []int64{1704412800, 1704499200, 1704585600},
			Indicators: IndicatorsContainer{Quote: []Quote{{
				Close: []*float64{f(31.1), f(31.4), nil},
			}}},
		}}}}

		last, err := LatestClose(resp)
		require.NoError(t, err)
		assert.Equal(t, 31.4, last.Price)
		assert.Equal(t, int64(1704499200), last.Date.Unix())
	})

	t.Run("falls back to regular market price", func(t *testing.T) {
		resp := Response{Chart: Chart{Result: []Result{{
			Meta: Meta{RegularMarketPrice: 32.0},
		}}}}

		last, err := LatestClose(resp)
		require.NoError(t, err)
		assert.Equal(t, 32.0, last.Price)
	})

	t.Run("no data is not found", func(t *testing.T) {
		_, err := LatestClose(Response{})
		assert.ErrorIs(t, err, apperrors.ErrQuoteNotFound)

		_, err = LatestClose(Response{Chart: Chart{Result: []Result{{}}}})
		assert.ErrorIs(t, err, apperrors.ErrQuoteNotFound)
	})
}

// TestFinanceClient_LatestRate tests the HTTP round trip against a fake Yahoo.
//
// WHY: The converter relies on errors to decide when to fall back; outages,
// API errors and good responses must be distinguishable.
func TestFinanceClient_LatestRate(t *testing.T) {
	t.Run("returns the latest close for the pair symbol", func(t *testing.T) {
		var gotPath string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotPath = r.URL.Path
			fmt.Fprint(w, `{"chart":{"result":[{"meta":{"symbol":"USDTWD=X"},"timestamp":[1704412800,1704499200],"indicators":{"quote":[{"close":[31.2,31.5]}]}}],"error":null}}`)
		}))
		defer srv.Close()

		c := NewFinanceClient(WithBaseURL(srv.URL))
		rate, at, err := c.LatestRate(context.Background(), "usd", "twd")
		require.NoError(t, err)
		assert.Equal(t, 31.5, rate)
		assert.Equal(t, int64(1704499200), at.Unix())
		assert.Equal(t, "/v8/finance/chart/USDTWD=X", gotPath)
	})

	t.Run("api error is returned", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			fmt.Fprint(w, `{"chart":{"result":null,"error":"No data found, symbol may be delisted"}}`)
		}))
		defer srv.Close()

		_, _, err := NewFinanceClient(WithBaseURL(srv.URL)).LatestRate(context.Background(), "XXX", "TWD")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "yahoo error")
	})

	t.Run("server failure is transport unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			fmt.Fprint(w, "bad gateway")
		}))
		defer srv.Close()

		_, _, err := NewFinanceClient(WithBaseURL(srv.URL)).LatestRate(context.Background(), "USD", "TWD")
		assert.ErrorIs(t, err, apperrors.ErrTransportUnavailable)
	})

	t.Run("unreachable host is transport unavailable", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		url := srv.URL
		srv.Close()

		_, _, err := NewFinanceClient(WithBaseURL(url)).LatestRate(context.Background(), "USD", "TWD")
		assert.ErrorIs(t, err, apperrors.ErrTransportUnavailable)
	})
}

func TestFXSymbol(t *testing.T) {
	assert.Equal(t, "USDTWD=X", FXSymbol("usd", "TWD"))
	assert.Equal(t, "GBPTWD=X", FXSymbol("GBP", "twd"))
}
