package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
)

const defaultBaseURL = "https://query1.finance.yahoo.com"

// Client defines the interface for fetching chart data from Yahoo Finance.
// This interface enables dependency injection and testing with mock implementations.
type Client interface {
	QueryYahooFiveDaySymbol(ctx context.Context, symbol string) (Response, error)
}

// FinanceClient provides methods for fetching financial data from Yahoo Finance API.
// It wraps an HTTP client and is used here as the FX quote provider.
type FinanceClient struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a FinanceClient.
type Option func(*FinanceClient)

// WithBaseURL points the client at another host, used by tests.
func WithBaseURL(baseURL string) Option {
	return func(c *FinanceClient) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *FinanceClient) { c.httpClient = hc }
}

// NewFinanceClient creates a new Yahoo Finance client with a 10 second request timeout.
func NewFinanceClient(opts ...Option) *FinanceClient {
	c := &FinanceClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FXSymbol returns the Yahoo ticker for a currency pair, e.g. "USDTWD=X".
func FXSymbol(foreign, reporting string) string {
	return strings.ToUpper(foreign) + strings.ToUpper(reporting) + "=X"
}

// LatestRate returns the most recent closing rate of foreign expressed in reporting
// currency units, together with the bar time it belongs to.
func (c *FinanceClient) LatestRate(ctx context.Context, foreign, reporting string) (float64, time.Time, error) {
	resp, err := c.QueryYahooFiveDaySymbol(ctx, FXSymbol(foreign, reporting))
	if err != nil {
		return 0, time.Time{}, err
	}
	last, err := LatestClose(resp)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("%s/%s: %w", foreign, reporting, err)
	}
	return last.Price, last.Date, nil
}

// LatestClose returns the last non-null, strictly positive close in the response.
// When no bar qualifies, the regular market price from the metadata is used.
func LatestClose(resp Response) (Close, error) {
	if len(resp.Chart.Result) == 0 {
		return Close{}, apperrors.ErrQuoteNotFound
	}
	result := resp.Chart.Result[0]

	if len(result.Indicators.Quote) > 0 {
		closes := result.Indicators.Quote[0].Close
		for i := len(closes) - 1; i >= 0; i-- {
			if closes[i] == nil || *closes[i] <= 0 || i >= len(result.Timestamp) {
				continue
			}
			return Close{
				Date:  time.Unix(result.Timestamp[i], 0).UTC(),
				Price: *closes[i],
			}, nil
		}
	}

	if result.Meta.RegularMarketPrice > 0 {
		return Close{Price: result.Meta.RegularMarketPrice}, nil
	}
	return Close{}, apperrors.ErrQuoteNotFound
}

// QueryYahooFiveDaySymbol fetches the last 5 days of daily bars for a symbol.
// The range-based query (range=5d) lets Yahoo pick the most recent trading days.
func (c *FinanceClient) QueryYahooFiveDaySymbol(ctx context.Context, symbol string) (Response, error) {
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", c.baseURL, url.PathEscape(symbol))
	result, err := c.queryYahoo(ctx, endpoint)
	if err != nil {
		return Response{}, err
	}
	if len(result.Chart.Result) == 0 {
		return Response{}, fmt.Errorf("no results returned for symbol %s: %w", symbol, apperrors.ErrQuoteNotFound)
	}

	return result, nil
}

// queryYahoo executes a request against the Yahoo Finance API and decodes the chart envelope.
//
// The method sets required headers:
//   - User-Agent: Mimics a browser to avoid API blocking
//   - Accept: Requests JSON response format
func (c *FinanceClient) queryYahoo(ctx context.Context, endpoint string) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Response{}, err
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", apperrors.ErrTransportUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %w", apperrors.ErrTransportUnavailable, err)
	}

	var response Response
	if err := json.Unmarshal(data, &response); err != nil {
		if resp.StatusCode != http.StatusOK {
			return Response{}, fmt.Errorf("%w: status %d", apperrors.ErrTransportUnavailable, resp.StatusCode)
		}
		return Response{}, err
	}

	if response.Chart.Error != nil {
		return response, fmt.Errorf("yahoo error: %s", *response.Chart.Error)
	}
	if resp.StatusCode != http.StatusOK {
		return Response{}, fmt.Errorf("%w: status %d", apperrors.ErrTransportUnavailable, resp.StatusCode)
	}

	return response, nil
}
