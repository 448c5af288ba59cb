// Package distribution describes the shape of a return distribution: higher
// moments, win/loss asymmetry, benchmark capture and tail risk.
package distribution

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/perfstats/pkg/stats"
)

// Skewness is the adjusted Fisher-Pearson sample skewness of a return series.
// Unlike mathutil.Skewness, identical returns are rejected instead of
// producing NaN.
func Skewness(returns []float64) (float64, error) {
	if len(returns) < 3 {
		return 0, stats.InvalidArgument("skewness needs at least 3 returns, got %d", len(returns))
	}
	if stats.AllEqual(returns) {
		return 0, stats.InvalidArgument("returns have zero variance, skewness is undefined")
	}
	return stat.Skew(returns, nil), nil
}

// Kurtosis is the sample excess kurtosis of a return series. Identical
// returns are rejected, see Skewness.
func Kurtosis(returns []float64) (float64, error) {
	if len(returns) < 4 {
		return 0, stats.InvalidArgument("kurtosis needs at least 4 returns, got %d", len(returns))
	}
	if stats.AllEqual(returns) {
		return 0, stats.InvalidArgument("returns have zero variance, kurtosis is undefined")
	}
	return stat.ExKurtosis(returns, nil), nil
}

// GainLossRatio is the sum of positive returns over the absolute sum of
// negative returns. +Inf when there are no losses.
func GainLossRatio(returns []float64) (float64, error) {
	if len(returns) == 0 {
		return 0, stats.InvalidArgument("returns vector is empty")
	}

	var gains, losses float64
	for _, r := range returns {
		if r > 0 {
			gains += r
		} else if r < 0 {
			losses -= r
		}
	}
	if losses == 0 {
		return math.Inf(1), nil
	}
	return gains / losses, nil
}

// HitRatio is the fraction of strictly positive returns.
func HitRatio(returns []float64) (float64, error) {
	if len(returns) == 0 {
		return 0, stats.InvalidArgument("returns vector is empty")
	}

	hits := 0
	for _, r := range returns {
		if r > 0 {
			hits++
		}
	}
	return float64(hits) / float64(len(returns)), nil
}

// UpsideCaptureRatio compares the average portfolio return to the average
// benchmark return over the periods where the benchmark rose.
func UpsideCaptureRatio(portfolioReturns, benchmarkReturns []float64) (float64, error) {
	return captureRatio(portfolioReturns, benchmarkReturns, func(b float64) bool { return b > 0 })
}

// DownsideCaptureRatio is UpsideCaptureRatio over the periods where the
// benchmark fell. Values below 1 mean the portfolio lost less.
func DownsideCaptureRatio(portfolioReturns, benchmarkReturns []float64) (float64, error) {
	return captureRatio(portfolioReturns, benchmarkReturns, func(b float64) bool { return b < 0 })
}

func captureRatio(portfolioReturns, benchmarkReturns []float64, qualifies func(float64) bool) (float64, error) {
	if len(portfolioReturns) != len(benchmarkReturns) {
		return 0, stats.InvalidArgument("portfolio (%d) and benchmark (%d) returns have different lengths",
			len(portfolioReturns), len(benchmarkReturns))
	}

	var portfolioSum, benchmarkSum float64
	count := 0
	for i, b := range benchmarkReturns {
		if qualifies(b) {
			portfolioSum += portfolioReturns[i]
			benchmarkSum += b
			count++
		}
	}
	if count == 0 {
		return 0, nil
	}

	benchmarkMean := benchmarkSum / float64(count)
	if benchmarkMean == 0 {
		return 0, nil
	}
	return (portfolioSum / float64(count)) / benchmarkMean, nil
}
