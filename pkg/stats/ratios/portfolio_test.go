package ratios

import (
	"errors"
	"testing"

	"github.com/aristath/perfstats/pkg/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPortfolioVariance(t *testing.T) {
	cov := [][]float64{
		{0.04, 0.01},
		{0.01, 0.09},
	}

	got, err := PortfolioVariance(cov, []float64{0.5, 0.5})
	require.NoError(t, err)
	assert.InDelta(t, 0.0375, got, 1e-12)

	got, err = PortfolioVariance(cov, []float64{1, 0})
	require.NoError(t, err)
	assert.InDelta(t, 0.04, got, 1e-12)
}

func TestPortfolioVariance_Empty(t *testing.T) {
	got, err := PortfolioVariance(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 0.0, got)
}

func TestPortfolioVariance_ShapeMismatch(t *testing.T) {
	_, err := PortfolioVariance([][]float64{{0.04, 0.01}}, []float64{0.5, 0.5})
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))

	_, err = PortfolioVariance([][]float64{{0.04}, {0.01, 0.09}}, []float64{0.5, 0.5})
	assert.True(t, errors.Is(err, stats.ErrInvalidArgument))
}
