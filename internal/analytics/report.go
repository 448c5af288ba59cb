// Package analytics turns price series into performance reports, matrices and
// portfolio summaries by running the pkg/stats modules in order: returns,
// then volatility/drawdown/distribution, then ratios.
package analytics

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/aristath/perfstats/pkg/stats"
	"github.com/aristath/perfstats/pkg/stats/correlation"
	"github.com/aristath/perfstats/pkg/stats/distribution"
	"github.com/aristath/perfstats/pkg/stats/drawdown"
	"github.com/aristath/perfstats/pkg/stats/mathutil"
	"github.com/aristath/perfstats/pkg/stats/movingavg"
	"github.com/aristath/perfstats/pkg/stats/ratios"
	"github.com/aristath/perfstats/pkg/stats/returns"
	"github.com/aristath/perfstats/pkg/stats/series"
	"github.com/aristath/perfstats/pkg/stats/volatility"
)

// Metric names, in display order.
const (
	MetricTotalReturn          = "total_return"
	MetricAnnualizedReturn     = "annualized_return"
	MetricMeanReturn           = "mean_return"
	MetricVariance             = "variance"
	MetricAnnualizedVolatility = "annualized_volatility"
	MetricSharpe               = "sharpe"
	MetricAnnualizedSharpe     = "annualized_sharpe"
	MetricSortino              = "sortino"
	MetricOmega                = "omega"
	MetricCalmar               = "calmar"
	MetricSterling             = "sterling"
	MetricMaxDrawdown          = "max_drawdown"
	MetricAverageDrawdown      = "average_drawdown"
	MetricMaxRecoveryTime      = "max_recovery_time"
	MetricUlcerIndex           = "ulcer_index"
	MetricSkewness             = "skewness"
	MetricKurtosis             = "kurtosis"
	MetricGainLoss             = "gain_loss_ratio"
	MetricHitRatio             = "hit_ratio"
	MetricVolatilitySkew       = "volatility_skew"
	MetricVaR                  = "value_at_risk"
	MetricCVaR                 = "conditional_value_at_risk"
	MetricParametricVaR        = "parametric_value_at_risk"
	MetricBeta                 = "beta"
	MetricAlpha                = "alpha"
	MetricTreynor              = "treynor"
	MetricInformation          = "information_ratio"
	MetricUpsideCapture        = "upside_capture"
	MetricDownsideCapture      = "downside_capture"
	MetricCorrelation          = "benchmark_correlation"
)

// MetricOrder lists every metric name in display order.
var MetricOrder = []string{
	MetricTotalReturn, MetricAnnualizedReturn, MetricMeanReturn, MetricVariance,
	MetricAnnualizedVolatility, MetricSharpe, MetricAnnualizedSharpe, MetricSortino,
	MetricOmega, MetricCalmar, MetricSterling, MetricMaxDrawdown, MetricAverageDrawdown,
	MetricMaxRecoveryTime, MetricUlcerIndex, MetricSkewness, MetricKurtosis, MetricGainLoss,
	MetricHitRatio, MetricVolatilitySkew, MetricVaR, MetricCVaR, MetricParametricVaR,
	MetricBeta, MetricAlpha, MetricTreynor, MetricInformation, MetricUpsideCapture,
	MetricDownsideCapture, MetricCorrelation,
}

// Options controls report computation. Zero values fall back to defaults.
type Options struct {
	PeriodsPerYear int     `json:"periods_per_year"`
	RiskFreeRate   float64 `json:"risk_free_rate"` // per period
	RollingWindow  int     `json:"rolling_window"`
	Confidence     float64 `json:"confidence"` // VaR confidence level
}

// DefaultOptions are daily-data defaults
var DefaultOptions = Options{
	PeriodsPerYear: 252,
	RiskFreeRate:   0,
	RollingWindow:  20,
	Confidence:     0.95,
}

func (o Options) withDefaults(d Options) Options {
	if o.PeriodsPerYear <= 0 {
		o.PeriodsPerYear = d.PeriodsPerYear
	}
	if o.RollingWindow <= 0 {
		o.RollingWindow = d.RollingWindow
	}
	if o.Confidence <= 0 || o.Confidence >= 1 {
		o.Confidence = d.Confidence
	}
	return o
}

// validate rejects rates that would turn every metric into NaN or Inf.
func (o Options) validate() error {
	return checkRate(o.RiskFreeRate)
}

func checkRate(rf float64) error {
	if math.IsNaN(rf) || math.IsInf(rf, 0) {
		return stats.InvalidArgument("risk-free rate must be finite, got %v", rf)
	}
	return nil
}

// Series holds the per-period outputs of a report
type Series struct {
	Dates             []string `json:"dates"`
	Prices            Metrics  `json:"prices"`
	Returns           Metrics  `json:"returns"`
	Cumulative        Metrics  `json:"cumulative"`
	RollingVolatility Metrics  `json:"rolling_volatility"`
	RollingSharpe     Metrics  `json:"rolling_sharpe"`
	RollingSortino    Metrics  `json:"rolling_sortino"`
	SMA               Metrics  `json:"sma"`
	EMA               Metrics  `json:"ema"`
}

// Report is the full metric panel for one asset
type Report struct {
	ID          string            `json:"id"`
	Ticker      string            `json:"ticker"`
	Benchmark   string            `json:"benchmark,omitempty"`
	Start       string            `json:"start"`
	End         string            `json:"end"`
	Points      int               `json:"points"`
	Options     Options           `json:"options"`
	GeneratedAt time.Time         `json:"generated_at"`
	Metrics     map[string]Metric `json:"metrics"`
	Drawdown    drawdown.Metrics  `json:"drawdown"`
	Series      Series            `json:"series"`
	Warnings    []string          `json:"warnings,omitempty"`
}

// reportBuilder collects metrics and turns per-metric failures into warnings
type reportBuilder struct {
	report *Report
}

func (b *reportBuilder) set(name string, v float64) {
	b.report.Metrics[name] = Metric(v)
}

// record returns a setter that keeps the value or records the error as a
// warning, so it can wrap any (float64, error) call.
func (b *reportBuilder) record(name string) func(float64, error) (float64, bool) {
	return func(v float64, err error) (float64, bool) {
		if err != nil {
			b.report.Warnings = append(b.report.Warnings, fmt.Sprintf("%s: %v", name, err))
			return 0, false
		}
		b.set(name, v)
		return v, true
	}
}

// BuildReport computes every metric for asset. benchmark may be nil. Only
// failures of the returns stage are fatal; metrics whose formula rejects the
// data are omitted and listed in Warnings.
func BuildReport(asset series.PriceSeries, benchmark *series.PriceSeries, opts Options) (*Report, error) {
	opts = opts.withDefaults(DefaultOptions)
	if err := opts.validate(); err != nil {
		return nil, err
	}
	rf := opts.RiskFreeRate
	ppy := opts.PeriodsPerYear

	r, err := returns.DailyReturns(asset)
	if err != nil {
		return nil, fmt.Errorf("returns for %s: %w", asset.Ticker(), err)
	}
	mean, err := returns.MeanReturn(r)
	if err != nil {
		return nil, fmt.Errorf("mean return for %s: %w", asset.Ticker(), err)
	}
	total, err := returns.TotalReturn(asset)
	if err != nil {
		return nil, fmt.Errorf("total return for %s: %w", asset.Ticker(), err)
	}

	report := &Report{
		ID:          uuid.NewString(),
		Ticker:      asset.Ticker(),
		Start:       asset.First(),
		End:         asset.Last(),
		Points:      asset.Len(),
		Options:     opts,
		GeneratedAt: time.Now().UTC(),
		Metrics:     make(map[string]Metric, len(MetricOrder)),
	}
	b := &reportBuilder{report: report}

	b.set(MetricTotalReturn, total)
	b.set(MetricMeanReturn, mean)
	annualReturn, haveAnnual := b.record(MetricAnnualizedReturn)(returns.AnnualizedReturn(total, len(r), ppy))

	// Volatility
	variance, haveVariance := b.record(MetricVariance)(mathutil.Variance(r, true))
	b.record(MetricAnnualizedVolatility)(volatility.AnnualizedVolatility(r, ppy))
	if haveVariance {
		sharpe := ratios.Sharpe(mean, variance, rf)
		b.set(MetricSharpe, sharpe)
		b.set(MetricAnnualizedSharpe, sharpe*math.Sqrt(float64(ppy)))
	}
	b.set(MetricSortino, ratios.Sortino(mean, rf, r))
	b.set(MetricOmega, ratios.Omega(r, rf))

	// Drawdowns on the compounded path
	path := returns.CumulativePath(r)
	maxDD := drawdown.MaxDrawdown(path)
	avgDD := drawdown.AverageDrawdown(path)
	b.set(MetricMaxDrawdown, maxDD)
	b.set(MetricAverageDrawdown, avgDD)
	b.set(MetricMaxRecoveryTime, float64(drawdown.MaxRecoveryTime(path)))
	b.record(MetricUlcerIndex)(drawdown.UlcerIndex(path))
	if m, err := drawdown.Calculate(path); err == nil {
		report.Drawdown = m
	}
	if haveAnnual {
		b.set(MetricCalmar, ratios.Calmar(annualReturn, maxDD))
		b.record(MetricSterling)(ratios.Sterling(annualReturn, rf*float64(ppy), avgDD))
	}

	// Distribution
	b.record(MetricSkewness)(distribution.Skewness(r))
	b.record(MetricKurtosis)(distribution.Kurtosis(r))
	b.record(MetricGainLoss)(distribution.GainLossRatio(r))
	b.record(MetricHitRatio)(distribution.HitRatio(r))
	b.record(MetricVolatilitySkew)(volatility.VolatilitySkew(r))
	b.record(MetricVaR)(distribution.ValueAtRisk(r, opts.Confidence))
	b.record(MetricCVaR)(distribution.ConditionalValueAtRisk(r, opts.Confidence))
	b.record(MetricParametricVaR)(distribution.ParametricValueAtRisk(r, opts.Confidence))

	if benchmark != nil {
		report.Benchmark = benchmark.Ticker()
		if err := addBenchmarkMetrics(b, asset, *benchmark, r, mean, rf); err != nil {
			report.Warnings = append(report.Warnings, fmt.Sprintf("benchmark %s: %v", benchmark.Ticker(), err))
		}
	}

	prices := asset.Prices()
	report.Series = Series{
		Dates:             asset.Dates(),
		Prices:            toMetrics(prices),
		Returns:           toMetrics(r),
		Cumulative:        toMetrics(path),
		RollingVolatility: toMetrics(volatility.RollingVolatility(r, opts.RollingWindow)),
		RollingSharpe:     toMetrics(volatility.RollingSharpe(r, opts.RollingWindow, rf)),
		RollingSortino:    toMetrics(volatility.RollingSortino(r, opts.RollingWindow, rf)),
		SMA:               toMetrics(movingavg.SMA(prices, opts.RollingWindow)),
		EMA:               toMetrics(movingavg.EMA(prices, opts.RollingWindow)),
	}

	return report, nil
}

func addBenchmarkMetrics(b *reportBuilder, asset, benchmark series.PriceSeries, r []float64, mean, rf float64) error {
	br, err := returns.DailyReturns(benchmark)
	if err != nil {
		return err
	}

	beta := ratios.BetaFromReturns(r, br)
	b.set(MetricBeta, beta)
	b.record(MetricAlpha)(ratios.AlphaWithBeta(asset, benchmark, rf, beta))
	b.set(MetricTreynor, ratios.Treynor(mean, rf, beta))

	// Pairwise metrics need equal lengths; positions are assumed aligned.
	n := min(len(r), len(br))
	b.record(MetricInformation)(ratios.Information(r[:n], br[:n]))
	b.record(MetricUpsideCapture)(distribution.UpsideCaptureRatio(r[:n], br[:n]))
	b.record(MetricDownsideCapture)(distribution.DownsideCaptureRatio(r[:n], br[:n]))

	m, err := correlation.CorrelationMatrix([]series.PriceSeries{asset, benchmark})
	if err != nil {
		return err
	}
	b.set(MetricCorrelation, m[0][1])
	return nil
}
