package mathutil

import (
	"errors"
	"math"
	"testing"

	"github.com/aristath/perfstats/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	got, err := Mean([]float64{1, 2, 3, 4})
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got, 1e-12)

	_, err = Mean(nil)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		data []float64
		want float64
	}{
		{name: "odd length", data: []float64{3, 1, 2}, want: 2},
		{name: "even length averages middle", data: []float64{4, 1, 3, 2}, want: 2.5},
		{name: "single value", data: []float64{7}, want: 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Median(tt.data)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	input := []float64{3, 1, 2}
	_, _ = Median(input)
	assert.Equal(t, []float64{3, 1, 2}, input, "median must not reorder the caller's slice")

	_, err := Median(nil)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
}

func TestVariance(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	pop, err := Variance(data, false)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, pop, 1e-12)

	sample, err := Variance(data, true)
	require.NoError(t, err)
	assert.InDelta(t, 32.0/7.0, sample, 1e-12)

	sd, err := StandardDeviation(data, false)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, sd, 1e-12)
}

func TestVariance_InsufficientData(t *testing.T) {
	_, err := Variance([]float64{1}, true)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))

	_, err = Variance(nil, false)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))

	single, err := Variance([]float64{1}, false)
	require.NoError(t, err)
	assert.Equal(t, 0.0, single)

	_, err = StandardDeviation([]float64{}, true)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
}

func TestMinMax(t *testing.T) {
	data := []float64{0.5, -1.5, 3.25, 0}

	lo, err := Min(data)
	require.NoError(t, err)
	assert.Equal(t, -1.5, lo)

	hi, err := Max(data)
	require.NoError(t, err)
	assert.Equal(t, 3.25, hi)

	_, err = Min(nil)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
	_, err = Max(nil)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
}

func TestSkewness(t *testing.T) {
	symmetric, err := Skewness([]float64{1, 2, 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.0, symmetric, 1e-12)

	rightTail, err := Skewness([]float64{1, 2, 10})
	require.NoError(t, err)
	assert.InDelta(t, 1.652316740332991, rightTail, 1e-6)

	_, err = Skewness([]float64{1, 2})
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
}

func TestKurtosis(t *testing.T) {
	got, err := Kurtosis([]float64{1, 2, 3, 4, 10})
	require.NoError(t, err)
	assert.InDelta(t, 3.152, got, 1e-9)

	_, err = Kurtosis([]float64{1, 2, 3})
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
}

// The generic primitives report zero variance as NaN; the return-series
// wrappers in package distribution reject it instead.
func TestMoments_ConstantDataIsNaN(t *testing.T) {
	skew, err := Skewness([]float64{0.05, 0.05, 0.05})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(skew))

	kurt, err := Kurtosis([]float64{0.03, 0.03, 0.03, 0.03})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(kurt))
}

func TestPercentile(t *testing.T) {
	data := []float64{5, 1, 4, 2, 3}

	tests := []struct {
		p    float64
		want float64
	}{
		{p: 0, want: 1},
		{p: 25, want: 2},
		{p: 50, want: 3},
		{p: 90, want: 4.6},
		{p: 100, want: 5},
	}

	for _, tt := range tests {
		got, err := Percentile(data, tt.p)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-12, "p=%v", tt.p)
	}
}

func TestPercentile_Invalid(t *testing.T) {
	_, err := Percentile(nil, 50)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))

	_, err = Percentile([]float64{1, 2}, -1)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))

	_, err = Percentile([]float64{1, 2}, 100.5)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
}

func TestZScoreNormalize(t *testing.T) {
	got, err := ZScoreNormalize([]float64{2, 4, 4, 4, 5, 5, 7, 9})
	require.NoError(t, err)

	want := []float64{-1.5, -0.5, -0.5, -0.5, 0, 0, 1, 2}
	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12)
	}
}

func TestZScoreNormalize_ZeroStdDev(t *testing.T) {
	_, err := ZScoreNormalize([]float64{3, 3, 3})
	require.Error(t, err)
	assert.True(t, errors.Is(err, stats.ErrDomain))

	_, err = ZScoreNormalize([]float64{7})
	assert.True(t, errors.Is(err, stats.ErrDomain))

	_, err = ZScoreNormalize(nil)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
}
