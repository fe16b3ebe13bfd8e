package testutil

import (
	"context"
	"sync"
	"time"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/apperrors"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/yahoo"
)

// MockRateProvider is a mock FX quote provider for testing.
// It returns predefined rates instead of calling Yahoo Finance.
type MockRateProvider struct {
	mu sync.Mutex
	// Rates maps a foreign currency code to its rate.
	Rates map[string]float64
	// MockError is returned from every call when set.
	MockError error
	// QueryCount tracks how many times LatestRate was called.
	QueryCount int
}

// NewMockRateProvider creates a provider quoting USD at 32.0.
func NewMockRateProvider() *MockRateProvider {
	return &MockRateProvider{
		Rates: map[string]float64{"USD": 32.0},
	}
}

// LatestRate returns the configured rate for foreign, or apperrors.ErrQuoteNotFound.
func (m *MockRateProvider) LatestRate(_ context.Context, foreign, _ string) (float64, time.Time, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueryCount++
	if m.MockError != nil {
		return 0, time.Time{}, m.MockError
	}
	rate, ok := m.Rates[foreign]
	if !ok {
		return 0, time.Time{}, apperrors.ErrQuoteNotFound
	}
	return rate, time.Now().UTC(), nil
}

// Calls returns QueryCount under the lock.
func (m *MockRateProvider) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.QueryCount
}

// WithError configures the mock to return the specified error.
func (m *MockRateProvider) WithError(err error) *MockRateProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.MockError = err
	return m
}

// WithRate sets the rate for one currency.
func (m *MockRateProvider) WithRate(currency string, rate float64) *MockRateProvider {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rates[currency] = rate
	return m
}

// CreateMockFXResponse creates a Yahoo chart response with one daily close per rate,
// ending yesterday. A zero rate becomes a null bar.
func CreateMockFXResponse(symbol string, rates ...float64) yahoo.Response {
	now := time.Now().UTC()
	yesterday := time.Date(now.Year(), now.Month(), now.Day()-1, 0, 0, 0, 0, time.UTC)

	timestamps := make([]int64, len(rates))
	closes := make([]*float64, len(rates))
	for i, rate := range rates {
		timestamps[i] = yesterday.AddDate(0, 0, -len(rates)+i+1).Unix()
		if rate != 0 {
			closes[i] = &rate
		}
	}

	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{
				{
					Meta: yahoo.Meta{
						Symbol:   symbol,
						Currency: symbol[3:6],
					},
					Timestamp: timestamps,
					Indicators: yahoo.IndicatorsContainer{
						Quote: []yahoo.Quote{{Close: closes}},
					},
				},
			},
		},
	}
}

// CreateMockYahooErrorResponse creates a mock Yahoo response with an error.
// Useful for testing error handling scenarios.
func CreateMockYahooErrorResponse(errorMsg string) yahoo.Response {
	return yahoo.Response{
		Chart: yahoo.Chart{
			Result: []yahoo.Result{},
			Error:  &errorMsg,
		},
	}
}
