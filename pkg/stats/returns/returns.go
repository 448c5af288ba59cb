// Package returns converts price series into return series and aggregates
// them into total, annualized and expected portfolio returns.
package returns

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/perfstats/pkg/stats"
	"github.com/aristath/perfstats/pkg/stats/series"
)

// DailyReturns converts prices to simple returns
// r[i] = (p[i] - p[i-1]) / p[i-1]
//
// A zero price in the denominator is an error rather than Inf/NaN.
func DailyReturns(s series.PriceSeries) ([]float64, error) {
	prices := s.Prices()
	if len(prices) < 2 {
		return nil, stats.InvalidArgument("at least two prices are required to compute returns for %q, got %d", s.Ticker(), len(prices))
	}

	out := make([]float64, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		prev := prices[i-1]
		if prev == 0 {
			return nil, stats.InvalidArgument("zero price at index %d of %q, cannot compute return", i-1, s.Ticker())
		}
		out[i-1] = (prices[i] - prev) / prev
	}
	return out, nil
}

// MeanReturn is the arithmetic mean of a return series.
func MeanReturn(returns []float64) (float64, error) {
	if len(returns) == 0 {
		return 0, stats.InvalidArgument("returns vector is empty")
	}
	return stat.Mean(returns, nil), nil
}

// TotalReturn is (last - first) / first over the whole series.
func TotalReturn(s series.PriceSeries) (float64, error) {
	if s.Len() < 2 {
		return 0, stats.InvalidArgument("at least two prices are required to compute total return, got %d", s.Len())
	}

	first := s.PriceAt(0)
	last := s.PriceAt(s.Len() - 1)
	if first == 0 {
		return 0, stats.InvalidArgument("start price cannot be 0")
	}
	return (last - first) / first, nil
}

// AnnualizedReturn converts a total return earned over numPeriods into a
// per-year rate: (1 + total)^(periodsPerYear/numPeriods) - 1.
func AnnualizedReturn(totalReturn float64, numPeriods, periodsPerYear int) (float64, error) {
	if numPeriods <= 0 || periodsPerYear <= 0 {
		return 0, stats.InvalidArgument("periods must be positive (numPeriods=%d, periodsPerYear=%d)", numPeriods, periodsPerYear)
	}
	return math.Pow(1+totalReturn, float64(periodsPerYear)/float64(numPeriods)) - 1, nil
}

// AnnualizedReturnFromReturns compounds a periodic return series and
// annualizes the result over len(returns) periods.
func AnnualizedReturnFromReturns(returns []float64, periodsPerYear int) (float64, error) {
	if len(returns) == 0 {
		return 0, stats.InvalidArgument("returns vector is empty")
	}

	path := CumulativePath(returns)
	return AnnualizedReturn(path[len(path)-1]-1, len(returns), periodsPerYear)
}

// ExpectedPortfolioReturn is the dot product of per-asset mean returns and
// weights. Weights are used as given; they are not normalised.
func ExpectedPortfolioReturn(meanReturns, weights []float64) (float64, error) {
	if len(meanReturns) != len(weights) {
		return 0, stats.InvalidArgument("mismatched lengths: %d mean returns, %d weights", len(meanReturns), len(weights))
	}
	if len(weights) == 0 {
		return 0, nil
	}
	return floats.Dot(meanReturns, weights), nil
}

// CumulativePath compounds returns into a growth path starting from an
// implicit 1.0: cum[i] = cum[i-1] * (1 + r[i]).
func CumulativePath(returns []float64) []float64 {
	path := make([]float64, len(returns))
	cum := 1.0
	for i, r := range returns {
		cum *= 1 + r
		path[i] = cum
	}
	return path
}
