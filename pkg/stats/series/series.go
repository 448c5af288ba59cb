// Package series defines PriceSeries, the ordered price history of one ticker.
package series

import (
	"github.com/aristath/perfstats/pkg/stats"
)

// PriceSeries is an immutable ticker + ordered (date, price) pairs.
// Dates may be empty placeholders when only prices are known.
type PriceSeries struct {
	ticker string
	dates  []string
	prices []float64
}

// New builds a PriceSeries. dates and prices must have the same length.
func New(ticker string, dates []string, prices []float64) (PriceSeries, error) {
	if len(dates) != len(prices) {
		return PriceSeries{}, stats.InvalidArgument("dates (%d) and prices (%d) must have the same length", len(dates), len(prices))
	}

	return PriceSeries{
		ticker: ticker,
		dates:  append([]string(nil), dates...),
		prices: append([]float64(nil), prices...),
	}, nil
}

// FromPrices builds a PriceSeries with empty date placeholders.
func FromPrices(ticker string, prices []float64) PriceSeries {
	return PriceSeries{
		ticker: ticker,
		dates:  make([]string, len(prices)),
		prices: append([]float64(nil), prices...),
	}
}

// Ticker returns the instrument identifier.
func (s PriceSeries) Ticker() string {
	return s.ticker
}

// Dates returns a copy of the date strings.
func (s PriceSeries) Dates() []string {
	return append([]string(nil), s.dates...)
}

// Prices returns a copy of the prices.
func (s PriceSeries) Prices() []float64 {
	return append([]float64(nil), s.prices...)
}

// Len returns the number of observations.
func (s PriceSeries) Len() int {
	return len(s.prices)
}

// PriceAt returns the i-th price without copying the whole series.
func (s PriceSeries) PriceAt(i int) float64 {
	return s.prices[i]
}

// First returns the first date, or "" for an empty series.
func (s PriceSeries) First() string {
	if len(s.dates) == 0 {
		return ""
	}
	return s.dates[0]
}

// Last returns the last date, or "" for an empty series.
func (s PriceSeries) Last() string {
	if len(s.dates) == 0 {
		return ""
	}
	return s.dates[len(s.dates)-1]
}
