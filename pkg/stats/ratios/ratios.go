// Package ratios computes risk-adjusted performance ratios from the outputs
// of the returns, volatility and drawdown packages.
//
// Zero denominators follow a fixed convention per ratio:
//
//	Sharpe      variance <= 0        -> 0
//	Sortino     no downside          -> +Inf
//	Treynor     beta == 0            -> 0
//	Calmar      max drawdown == 0    -> +Inf
//	Sterling    avg drawdown == 0    -> ErrInvalidArgument
//	Information tracking error == 0  -> 0
//	Omega       no shortfall         -> +Inf
package ratios

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/aristath/perfstats/pkg/stats"
)

// Sharpe is (expectedReturn - riskFreeRate) / sqrt(variance).
// A non-positive variance yields 0 instead of NaN.
func Sharpe(expectedReturn, variance, riskFreeRate float64) float64 {
	if variance <= 0 {
		return 0
	}
	return (expectedReturn - riskFreeRate) / math.Sqrt(variance)
}

// Sortino divides the excess return by the downside deviation, the root
// mean square of shortfalls below riskFreeRate. Only returns strictly below
// the threshold count. With no downside the ratio is +Inf.
func Sortino(expectedReturn, riskFreeRate float64, returns []float64) float64 {
	dd, ok := DownsideDeviation(returns, riskFreeRate)
	if !ok || dd == 0 {
		return math.Inf(1)
	}
	return (expectedReturn - riskFreeRate) / dd
}

// DownsideDeviation is sqrt(mean((r - threshold)^2)) over returns below
// threshold. ok is false when no return falls below it.
func DownsideDeviation(returns []float64, threshold float64) (float64, bool) {
	var sumSquares float64
	count := 0
	for _, r := range returns {
		if r < threshold {
			d := r - threshold
			sumSquares += d * d
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return math.Sqrt(sumSquares / float64(count)), true
}

// Treynor is (expectedReturn - riskFreeRate) / beta, 0 when beta is 0.
func Treynor(expectedReturn, riskFreeRate, beta float64) float64 {
	if beta == 0 {
		return 0
	}
	return (expectedReturn - riskFreeRate) / beta
}

// Calmar is annualReturn / maxDrawdown, +Inf when there was no drawdown.
func Calmar(annualReturn, maxDrawdown float64) float64 {
	if maxDrawdown == 0 {
		return math.Inf(1)
	}
	return annualReturn / maxDrawdown
}

// Sterling is (averageReturn - riskFreeRate) / averageDrawdown.
// Unlike Calmar, a zero average drawdown is rejected.
func Sterling(averageReturn, riskFreeRate, averageDrawdown float64) (float64, error) {
	if averageDrawdown == 0 {
		return 0, stats.InvalidArgument("average drawdown can't be 0")
	}
	return (averageReturn - riskFreeRate) / averageDrawdown, nil
}

// Information is mean(active) / popstddev(active) with active = portfolio - benchmark.
func Information(portfolioReturns, benchmarkReturns []float64) (float64, error) {
	if len(portfolioReturns) != len(benchmarkReturns) {
		return 0, stats.InvalidArgument("portfolio (%d) and benchmark (%d) returns have different lengths", len(portfolioReturns), len(benchmarkReturns))
	}
	if len(portfolioReturns) == 0 {
		return 0, stats.InvalidArgument("returns cannot be empty")
	}

	active := make([]float64, len(portfolioReturns))
	for i := range portfolioReturns {
		active[i] = portfolioReturns[i] - benchmarkReturns[i]
	}

	if stats.AllEqual(active) {
		return 0, nil
	}
	mean, sd := stat.PopMeanStdDev(active, nil)
	if sd == 0 {
		return 0, nil
	}
	return mean / sd, nil
}

// Omega is the sum of gains above threshold over the sum of shortfalls below
// it. +Inf when nothing falls below the threshold.
func Omega(returns []float64, threshold float64) float64 {
	var gains, shortfalls float64
	for _, r := range returns {
		if r > threshold {
			gains += r - threshold
		} else if r < threshold {
			shortfalls += threshold - r
		}
	}
	if shortfalls == 0 {
		return math.Inf(1)
	}
	return gains / shortfalls
}
