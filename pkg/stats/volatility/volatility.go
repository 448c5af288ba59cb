// Package volatility measures the dispersion of return series, both over the
// whole series and over sliding windows.
package volatility

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/perfstats/pkg/stats"
	"github.com/aristath/perfstats/pkg/stats/mathutil"
	"github.com/aristath/perfstats/pkg/stats/ratios"
)

// rollingStdDevWindow is the fixed window used by RollingStandardDeviation.
const rollingStdDevWindow = 3

// AnnualizedVolatility scales the sample standard deviation of returns by
// sqrt(periodsPerYear).
func AnnualizedVolatility(returns []float64, periodsPerYear int) (float64, error) {
	if len(returns) == 0 {
		return 0, stats.InvalidArgument("returns vector is empty")
	}
	if periodsPerYear <= 0 {
		return 0, stats.InvalidArgument("periods per year must be positive, got %d", periodsPerYear)
	}

	sd, err := mathutil.StandardDeviation(returns, true)
	if err != nil {
		return 0, err
	}
	return sd * math.Sqrt(float64(periodsPerYear)), nil
}

// RollingVolatility returns the sample standard deviation of every window of
// the given size, len(returns)-window+1 values in total. The result is empty
// when the window is longer than the series or smaller than 2; a window of 1
// has no sample standard deviation, so it yields no values rather than NaNs.
func RollingVolatility(returns []float64, window int) []float64 {
	return rolling(returns, window, 2, func(w []float64) float64 {
		return math.Sqrt(stat.Variance(w, nil))
	})
}

// RollingStandardDeviation is a rolling standard deviation over a fixed
// window of 3 observations. sample selects the n-1 divisor.
func RollingStandardDeviation(returns []float64, sample bool) []float64 {
	return rolling(returns, rollingStdDevWindow, 1, func(w []float64) float64 {
		if sample {
			return math.Sqrt(stat.Variance(w, nil))
		}
		return math.Sqrt(stat.PopVariance(w, nil))
	})
}

// RollingSharpe computes the Sharpe ratio of every window using the window
// mean and population variance.
func RollingSharpe(returns []float64, window int, riskFreeRate float64) []float64 {
	return rolling(returns, window, 1, func(w []float64) float64 {
		if stats.AllEqual(w) {
			return 0
		}
		mean, variance := stat.PopMeanVariance(w, nil)
		return ratios.Sharpe(mean, variance, riskFreeRate)
	})
}

// RollingSortino computes the Sortino ratio of every window. Windows without
// any return below riskFreeRate yield 0 rather than +Inf.
func RollingSortino(returns []float64, window int, riskFreeRate float64) []float64 {
	return rolling(returns, window, 2, func(w []float64) float64 {
		dd, ok := ratios.DownsideDeviation(w, riskFreeRate)
		if !ok {
			return 0
		}
		return (stat.Mean(w, nil) - riskFreeRate) / dd
	})
}

// VolatilitySkew is the sample standard deviation of negative returns over
// that of non-negative returns. Values above 1 mean losses are more volatile
// than gains.
func VolatilitySkew(returns []float64) (float64, error) {
	var positive, negative []float64
	for _, r := range returns {
		if r >= 0 {
			positive = append(positive, r)
		} else {
			negative = append(negative, r)
		}
	}

	if len(positive) == 0 {
		return 0, stats.InvalidArgument("no non-negative returns, cannot compute positive standard deviation")
	}
	if len(negative) == 0 {
		return 0, stats.InvalidArgument("no negative returns, cannot compute volatility skew")
	}

	sdPositive, err := mathutil.StandardDeviation(positive, true)
	if err != nil {
		return 0, stats.InvalidArgument("positive returns: %v", err)
	}
	sdNegative, err := mathutil.StandardDeviation(negative, true)
	if err != nil {
		return 0, stats.InvalidArgument("negative returns: %v", err)
	}
	if sdPositive == 0 {
		return 0, stats.InvalidArgument("standard deviation of positive returns is zero")
	}
	return sdNegative / sdPositive, nil
}

// rolling applies fn to each full window. It returns an empty, non-nil slice
// when window < minWindow or the series is shorter than the window.
func rolling(data []float64, window, minWindow int, fn func([]float64) float64) []float64 {
	if window < minWindow || len(data) < window {
		return []float64{}
	}

	out := make([]float64, 0, len(data)-window+1)
	for end := window; end <= len(data); end++ {
		out = append(out, fn(data[end-window:end]))
	}
	return out
}
