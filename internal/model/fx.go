package model

import "time"

// FXQuote is a cached exchange rate: reporting-currency units per one foreign unit.
type FXQuote struct {
	Foreign   string        `json:"foreign"`
	Reporting string        `json:"reporting"`
	Rate      float64       `json:"rate"`
	FetchedAt time.Time     `json:"fetchedAt"`
	TTL       time.Duration `json:"ttl"`
	Fallback  bool          `json:"fallback"`
}

// Pair returns the quote's pair as "FOREIGN/REPORTING".
func (q FXQuote) Pair() string {
	return q.Foreign + "/" + q.Reporting
}

// Expired reports whether the quote is past its TTL at now. Fallback quotes
// carry no fetch time and are always expired.
func (q FXQuote) Expired(now time.Time) bool {
	return !now.Before(q.FetchedAt.Add(q.TTL))
}
