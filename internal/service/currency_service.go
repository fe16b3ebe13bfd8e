package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"

	"github.com/ndewijer/Investment-Allocation-Backend/internal/cache"
	"github.com/ndewijer/Investment-Allocation-Backend/internal/model"
)

// RateProvider fetches the latest reporting-currency-per-foreign-unit rate.
// *yahoo.FinanceClient implements it.
type RateProvider interface {
	LatestRate(ctx context.Context, foreign, reporting string) (float64, time.Time, error)
}

// FallbackFunc returns the static rate to use for a foreign currency when the provider fails.
type FallbackFunc func(currency string) float64

// breakerFailures is the number of consecutive provider failures that open the breaker.
const breakerFailures = 3

// CurrencyService converts amounts into the reporting currency.
type CurrencyService struct {
	provider  RateProvider
	breaker   *gobreaker.CircuitBreaker
	cache     *cache.Cache
	reporting string
	fallback  FallbackFunc
	recorder  Recorder
	logger    zerolog.Logger
}

// NewCurrencyService creates a new CurrencyService.
func NewCurrencyService(provider RateProvider, c *cache.Cache, reporting string, fallback FallbackFunc, recorder Recorder, logger zerolog.Logger) *CurrencyService {
	s := &CurrencyService{
		provider:  provider,
		cache:     c,
		reporting: strings.ToUpper(reporting),
		fallback:  fallback,
		recorder:  recorderOrNop(recorder),
		logger:    logger.With().Str("component", "currency").Logger(),
	}
	s.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "fx-provider",
		Timeout: time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerFailures
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			s.logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("fx provider breaker changed state")
		},
	})
	return s
}

// ReportingCurrency returns the currency every amount is converted into.
func (s *CurrencyService) ReportingCurrency() string {
	return s.reporting
}

// Quote returns the rate for foreign. The reporting currency itself always
// quotes 1.0. When the provider fails, a fallback quote is returned together
// with a warning; fallback quotes are never cached.
func (s *CurrencyService) Quote(ctx context.Context, foreign string) (model.FXQuote, *model.Warning) {
	foreign = strings.ToUpper(strings.TrimSpace(foreign))
	if foreign == "" || foreign == s.reporting {
		return model.FXQuote{
			Foreign:   s.reporting,
			Reporting: s.reporting,
			Rate:      1,
			FetchedAt: s.cache.Now(),
			TTL:       s.cache.TTL(cache.KindFX),
		}, nil
	}

	pair := foreign + "/" + s.reporting
	quote := cache.GetOrLoad(s.cache, cache.Key{Source: pair, Kind: cache.KindFX}, func() (model.FXQuote, bool) {
		return s.fetch(ctx, foreign)
	})
	if !quote.Fallback {
		return quote, nil
	}

	s.recorder.FXFallback(pair)
	s.logger.Warn().Str("pair", pair).Float64("rate", quote.Rate).Msg("using fallback fx rate")
	w := warn(model.WarningFXFallback, "", fmt.Sprintf("%s quote unavailable, using fallback rate %g", pair, quote.Rate))
	return quote, &w
}

// Rate returns only the rate part of Quote.
func (s *CurrencyService) Rate(ctx context.Context, foreign string) float64 {
	q, _ := s.Quote(ctx, foreign)
	return q.Rate
}

// Convert multiplies amount by rate using decimal arithmetic.
func Convert(amount, rate float64) float64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromFloat(rate)).InexactFloat64()
}

func (s *CurrencyService) fetch(ctx context.Context, foreign string) (model.FXQuote, bool) {
	quote := model.FXQuote{
		Foreign:   foreign,
		Reporting: s.reporting,
		TTL:       s.cache.TTL(cache.KindFX),
	}

	result, err := s.breaker.Execute(func() (interface{}, error) {
		rate, _, err := s.provider.LatestRate(ctx, foreign, s.reporting)
		if err != nil {
			return nil, err
		}
		if rate <= 0 {
			return nil, fmt.Errorf("non-positive rate %v", rate)
		}
		return rate, nil
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("pair", quote.Pair()).Msg("fx quote fetch failed")
		quote.Rate = s.fallbackRate(foreign)
		quote.Fallback = true
		return quote, false
	}

	quote.Rate = result.(float64)
	quote.FetchedAt = s.cache.Now()
	return quote, true
}

func (s *CurrencyService) fallbackRate(foreign string) float64 {
	if s.fallback != nil {
		if rate := s.fallback(foreign); rate > 0 {
			return rate
		}
	}
	return defaultFallbackRate
}

// defaultFallbackRate is used when no fallback function is configured.
const defaultFallbackRate = 31.0
