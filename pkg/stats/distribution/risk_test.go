package distribution

import (
	"errors"
	"math"
	"testing"

	"github.com/aristath/perfstats/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tailReturns = []float64{-0.05, -0.02, 0.0, 0.01, 0.03, 0.04, 0.02, -0.01, 0.015, 0.025}

func TestValueAtRisk(t *testing.T) {
	got, err := ValueAtRisk(tailReturns, 0.90)
	require.NoError(t, err)
	assert.InDelta(t, -0.023, got, 1e-9)

	got, err = ValueAtRisk(tailReturns, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, 0.0125, got, 1e-9)
}

func TestConditionalValueAtRisk(t *testing.T) {
	tests := []struct {
		name       string
		returns    []float64
		confidence float64
		want       float64
	}{
		{name: "worst one", returns: tailReturns, confidence: 0.90, want: -0.05},
		{name: "worst two", returns: tailReturns, confidence: 0.80, want: -0.035},
		{name: "tail rounds up to one", returns: tailReturns, confidence: 0.99, want: -0.05},
		{name: "single return", returns: []float64{0.01}, confidence: 0.95, want: 0.01},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ConditionalValueAtRisk(tt.returns, tt.confidence)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}

	t.Run("not above var", func(t *testing.T) {
		cvar, err := ConditionalValueAtRisk(tailReturns, 0.9)
		require.NoError(t, err)
		v, err := ValueAtRisk(tailReturns, 0.9)
		require.NoError(t, err)
		assert.LessOrEqual(t, cvar, v)
	})
}

func TestParametricValueAtRisk(t *testing.T) {
	got, err := ParametricValueAtRisk([]float64{-0.01, 0.01}, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, -1.6448536269514722*math.Sqrt(0.0002), got, 1e-9)

	flat, err := ParametricValueAtRisk([]float64{0.01, 0.01, 0.01}, 0.95)
	require.NoError(t, err)
	assert.InDelta(t, 0.01, flat, 1e-15)

	_, err = ParametricValueAtRisk([]float64{0.01}, 0.95)
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
}

func TestValueAtRisk_InvalidInput(t *testing.T) {
	funcs := map[string]func([]float64, float64) (float64, error){
		"historical":  ValueAtRisk,
		"conditional": ConditionalValueAtRisk,
		"parametric":  ParametricValueAtRisk,
	}

	for name, fn := range funcs {
		t.Run(name, func(t *testing.T) {
			_, err := fn(nil, 0.95)
			assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
			_, err = fn(tailReturns, 0)
			assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
			_, err = fn(tailReturns, 1)
			assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
		})
	}
}
