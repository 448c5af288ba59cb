package analytics

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	testingpkg "github.com/aristath/perfstats/internal/testing"
	"github.com/aristath/perfstats/pkg/stats"
	"github.com/aristath/perfstats/pkg/stats/series"
)

func mustSeries(t *testing.T, ticker string, prices []float64) series.PriceSeries {
	t.Helper()
	return testingpkg.NewSeriesFixture(ticker, prices...)
}

func TestBuildReport_Metrics(t *testing.T) {
	asset := mustSeries(t, "AAA", []float64{100, 110, 99, 108.9})

	report, err := BuildReport(asset, nil, Options{})
	require.NoError(t, err)

	assert.NotEmpty(t, report.ID)
	assert.Equal(t, "AAA", report.Ticker)
	assert.Equal(t, 4, report.Points)
	assert.Equal(t, "2024-01-02", report.Start)
	assert.Equal(t, "2024-01-05", report.End)
	assert.Equal(t, DefaultOptions, report.Options)

	tests := []struct {
		name     string
		expected float64
	}{
		{MetricTotalReturn, 0.089},
		{MetricMeanReturn, 0.1 / 3},
		{MetricHitRatio, 2.0 / 3},
		{MetricMaxDrawdown, 0.1},
		{MetricGainLoss, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, ok := report.Metrics[tt.name]
			require.True(t, ok)
			assert.InDelta(t, tt.expected, v.Float(), 1e-9)
		})
	}

	// Three returns are too few for excess kurtosis.
	_, ok := report.Metrics[MetricKurtosis]
	assert.False(t, ok)
	require.NotEmpty(t, report.Warnings)
	assert.Contains(t, report.Warnings[0], MetricKurtosis)

	assert.Len(t, report.Series.Prices, 4)
	assert.Len(t, report.Series.Returns, 3)
	assert.Len(t, report.Series.Cumulative, 3)
	assert.Equal(t, asset.Dates(), report.Series.Dates)
}

func TestBuildReport_NoDownside(t *testing.T) {
	asset := mustSeries(t, "UP", []float64{100, 101, 103, 104, 107})

	report, err := BuildReport(asset, nil, Options{RollingWindow: 2})
	require.NoError(t, err)

	assert.True(t, math.IsInf(report.Metrics[MetricSortino].Float(), 1))
	assert.True(t, math.IsInf(report.Metrics[MetricCalmar].Float(), 1))
	assert.Equal(t, 0.0, report.Metrics[MetricMaxDrawdown].Float())

	// Zero average drawdown is rejected by Sterling.
	_, ok := report.Metrics[MetricSterling]
	assert.False(t, ok)

	data, err := json.Marshal(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"sortino":"+Inf"`)
}

func TestBuildReport_Benchmark(t *testing.T) {
	prices := []float64{100, 110, 99, 108.9, 104}
	asset := mustSeries(t, "AAA", prices)
	bench := mustSeries(t, "SPY", prices)

	report, err := BuildReport(asset, &bench, Options{})
	require.NoError(t, err)

	assert.Equal(t, "SPY", report.Benchmark)
	assert.InDelta(t, 1.0, report.Metrics[MetricBeta].Float(), 1e-9)
	assert.InDelta(t, 0.0, report.Metrics[MetricInformation].Float(), 1e-12)
	assert.InDelta(t, 1.0, report.Metrics[MetricUpsideCapture].Float(), 1e-9)
	assert.InDelta(t, 1.0, report.Metrics[MetricDownsideCapture].Float(), 1e-9)
	assert.InDelta(t, 1.0, report.Metrics[MetricCorrelation].Float(), 1e-9)
}

func TestBuildReport_TooShort(t *testing.T) {
	_, err := BuildReport(mustSeries(t, "AAA", []float64{100}), nil, Options{})
	require.Error(t, err)
	assert.ErrorIs(t, err, stats.ErrInvalidArgument)
}

func TestBuildReport_NonFiniteRiskFreeRate(t *testing.T) {
	asset := mustSeries(t, "AAA", []float64{100, 110, 99, 108.9})

	for _, rf := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := BuildReport(asset, nil, Options{RiskFreeRate: rf})
		assert.ErrorIs(t, err, stats.ErrInvalidArgument)
	}
}

func TestMetric_JSON(t *testing.T) {
	tests := []struct {
		value    float64
		expected string
	}{
		{1.5, `1.5`},
		{math.Inf(1), `"+Inf"`},
		{math.Inf(-1), `"-Inf"`},
		{math.NaN(), `"NaN"`},
	}
	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			data, err := json.Marshal(Metric(tt.value))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, string(data))

			var back Metric
			require.NoError(t, json.Unmarshal(data, &back))
			if math.IsNaN(tt.value) {
				assert.True(t, math.IsNaN(back.Float()))
			} else {
				assert.Equal(t, tt.value, back.Float())
			}
		})
	}
}

func TestMetricColumns_SkipsOmitted(t *testing.T) {
	r := &Report{Metrics: map[string]Metric{
		MetricSharpe:      1,
		MetricTotalReturn: 0.5,
	}}

	headers, columns := MetricColumns(r)
	assert.Equal(t, []string{MetricTotalReturn, MetricSharpe}, headers)
	assert.Equal(t, [][]float64{{0.5}, {1}}, columns)
}

func TestMatrixColumns(t *testing.T) {
	headers, columns := MatrixColumns([]string{"A", "B"}, [][]float64{{1, 2}, {3, 4}})
	assert.Equal(t, []string{"A", "B"}, headers)
	assert.Equal(t, [][]float64{{1, 3}, {2, 4}}, columns)
}
