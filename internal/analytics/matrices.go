package analytics

import (
	"fmt"
	"math"

	"github.com/aristath/perfstats/pkg/stats"
	"github.com/aristath/perfstats/pkg/stats/correlation"
	"github.com/aristath/perfstats/pkg/stats/ratios"
	"github.com/aristath/perfstats/pkg/stats/returns"
	"github.com/aristath/perfstats/pkg/stats/series"
)

// Matrices holds the covariance and correlation matrices of a ticker set.
type Matrices struct {
	Tickers     []string           `json:"tickers"`
	Covariance  correlation.Matrix `json:"covariance"`
	Correlation correlation.Matrix `json:"correlation"`
	StdDevs     []float64          `json:"std_devs"`
	Warnings    []string           `json:"warnings,omitempty"`
}

// BuildMatrices computes both matrices over the same assets.
func BuildMatrices(assets []series.PriceSeries) (*Matrices, error) {
	if len(assets) == 0 {
		return nil, stats.InvalidArgument("at least one asset is required")
	}

	cov, err := correlation.CovarianceMatrix(assets)
	if err != nil {
		return nil, fmt.Errorf("covariance matrix: %w", err)
	}
	corr, err := correlation.CorrelationMatrix(assets)
	if err != nil {
		return nil, fmt.Errorf("correlation matrix: %w", err)
	}

	return &Matrices{
		Tickers:     tickersOf(assets),
		Covariance:  cov,
		Correlation: corr,
		StdDevs:     cov.StdDevs(),
	}, nil
}

// Portfolio summarizes a weighted basket of assets.
type Portfolio struct {
	Tickers        []string  `json:"tickers"`
	Weights        []float64 `json:"weights"`
	MeanReturns    []float64 `json:"mean_returns"`
	ExpectedReturn float64   `json:"expected_return"`
	Variance       float64   `json:"variance"`
	Volatility     Metric    `json:"volatility"`
	Sharpe         Metric    `json:"sharpe"`
}

// BuildPortfolio combines per-asset mean returns with the covariance matrix.
// Weights are used as given and need not sum to one.
func BuildPortfolio(assets []series.PriceSeries, weights []float64, riskFreeRate float64) (*Portfolio, error) {
	if len(assets) == 0 {
		return nil, stats.InvalidArgument("at least one asset is required")
	}
	if len(weights) != len(assets) {
		return nil, stats.InvalidArgument("got %d weights for %d assets", len(weights), len(assets))
	}
	if err := checkRate(riskFreeRate); err != nil {
		return nil, err
	}

	means := make([]float64, len(assets))
	for i, a := range assets {
		r, err := returns.DailyReturns(a)
		if err != nil {
			return nil, fmt.Errorf("returns for %s: %w", a.Ticker(), err)
		}
		if means[i], err = returns.MeanReturn(r); err != nil {
			return nil, fmt.Errorf("mean return for %s: %w", a.Ticker(), err)
		}
	}

	expected, err := returns.ExpectedPortfolioReturn(means, weights)
	if err != nil {
		return nil, err
	}
	cov, err := correlation.CovarianceMatrix(assets)
	if err != nil {
		return nil, fmt.Errorf("covariance matrix: %w", err)
	}
	variance, err := correlation.PortfolioVariance(cov, weights)
	if err != nil {
		return nil, err
	}

	vol := 0.0
	if variance > 0 {
		vol = math.Sqrt(variance)
	}

	return &Portfolio{
		Tickers:        tickersOf(assets),
		Weights:        append([]float64(nil), weights...),
		MeanReturns:    means,
		ExpectedReturn: expected,
		Variance:       variance,
		Volatility:     Metric(vol),
		Sharpe:         Metric(ratios.Sharpe(expected, variance, riskFreeRate)),
	}, nil
}

func tickersOf(assets []series.PriceSeries) []string {
	out := make([]string, len(assets))
	for i, a := range assets {
		out[i] = a.Ticker()
	}
	return out
}
