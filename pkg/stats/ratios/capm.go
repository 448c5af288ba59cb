package ratios

import (
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/perfstats/pkg/stats"
	"github.com/aristath/perfstats/pkg/stats/returns"
	"github.com/aristath/perfstats/pkg/stats/series"
)

// Beta is cov(asset, benchmark) / var(benchmark) over the first
// min(len) returns of each series. A flat benchmark gives 0.
func Beta(asset, benchmark series.PriceSeries) (float64, error) {
	ar, err := returns.DailyReturns(asset)
	if err != nil {
		return 0, err
	}
	br, err := returns.DailyReturns(benchmark)
	if err != nil {
		return 0, err
	}
	return BetaFromReturns(ar, br), nil
}

// BetaFromReturns is Beta for callers that already hold return series.
func BetaFromReturns(assetReturns, benchmarkReturns []float64) float64 {
	n := min(len(assetReturns), len(benchmarkReturns))
	if n < 2 {
		return 0
	}

	a := assetReturns[:n]
	b := benchmarkReturns[:n]
	if stats.AllEqual(b) {
		return 0
	}

	variance := stat.Variance(b, nil)
	if variance == 0 {
		return 0
	}
	return stat.Covariance(a, b, nil) / variance
}

// Alpha is the CAPM alpha with beta estimated from the two series:
// mean(asset) - (rf + beta * (mean(benchmark) - rf)).
func Alpha(asset, benchmark series.PriceSeries, riskFreeRate float64) (float64, error) {
	beta, err := Beta(asset, benchmark)
	if err != nil {
		return 0, err
	}
	return AlphaWithBeta(asset, benchmark, riskFreeRate, beta)
}

// AlphaWithBeta is the CAPM alpha with a caller-supplied beta.
func AlphaWithBeta(asset, benchmark series.PriceSeries, riskFreeRate, beta float64) (float64, error) {
	ar, err := returns.DailyReturns(asset)
	if err != nil {
		return 0, err
	}
	br, err := returns.DailyReturns(benchmark)
	if err != nil {
		return 0, err
	}

	assetMean, err := returns.MeanReturn(ar)
	if err != nil {
		return 0, err
	}
	benchmarkMean, err := returns.MeanReturn(br)
	if err != nil {
		return 0, err
	}
	return CAPMAlpha(assetMean, benchmarkMean, riskFreeRate, beta), nil
}

// CAPMAlpha applies the alpha formula to precomputed means.
func CAPMAlpha(assetMean, benchmarkMean, riskFreeRate, beta float64) float64 {
	return assetMean - (riskFreeRate + beta*(benchmarkMean-riskFreeRate))
}
