package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// DirectedRate converts one unit of From into Rate units of To.
type DirectedRate struct {
	From Currency        `json:"from_currency"`
	To   Currency        `json:"to_currency"`
	Rate decimal.Decimal `json:"rate"`
}

type CurrencyPair struct {
	BaseCurrency   Currency `json:"base_currency"`
	TargetCurrency Currency `json:"target_currency"`
}

func (p CurrencyPair) String() string {
	return fmt.Sprintf("%s-%s", p.BaseCurrency, p.TargetCurrency)
}

// RateSet holds one DirectedRate per ordered pair of supported currencies.
type RateSet []DirectedRate

// Rate returns the rate for from->to.
func (rs RateSet) Rate(from, to Currency) (decimal.Decimal, bool) {
	for _, r := range rs {
		if r.From == from && r.To == to {
			return r.Rate, true
		}
	}
	return decimal.Zero, false
}

func (rs RateSet) Clone() RateSet {
	if rs == nil {
		return nil
	}
	out := make(RateSet, len(rs))
	copy(out, rs)
	return out
}

// Basis is the minimal pair of EUR-based rates the full set is derived from.
type Basis struct {
	EURCHF decimal.Decimal
	EURUSD decimal.Decimal
	AsOf   string
}

type Source string

const (
	SourceLive     Source = "live"
	SourceDatabase Source = "database"
)

// Snapshot is an immutable cache entry. It is replaced wholesale, never mutated.
type Snapshot struct {
	Rates     RateSet
	FetchedAt time.Time
	AsOf      string
	Source    Source
}

// IsFresh reports whether the snapshot is younger than ttl at now.
// Database snapshots are never fresh so the next request retries the feed.
func (s *Snapshot) IsFresh(now time.Time, ttl time.Duration) bool {
	if s == nil || s.Source != SourceLive {
		return false
	}
	return now.Sub(s.FetchedAt) < ttl
}

type RateResponse struct {
	Rates RateSet `json:"rates"`
	AsOf  string  `json:"rates_as_of"`
	Stale bool    `json:"stale"`
}

// HistoricalRate is a stored fiscal-year rate read by the database fallback.
type HistoricalRate struct {
	From       Currency
	To         Currency
	FiscalYear int
	Rate       decimal.Decimal
}

type ConversionRequest struct {
	FromCurrency Currency        `json:"from_currency"`
	ToCurrency   Currency        `json:"to_currency"`
	Amount       decimal.Decimal `json:"amount"`
}

type ConversionResult struct {
	FromCurrency Currency        `json:"from_currency"`
	ToCurrency   Currency        `json:"to_currency"`
	FromAmount   decimal.Decimal `json:"from_amount"`
	ToAmount     decimal.Decimal `json:"to_amount"`
	Rate         decimal.Decimal `json:"rate"`
	AsOf         string          `json:"rates_as_of"`
	Stale        bool            `json:"stale"`
}
