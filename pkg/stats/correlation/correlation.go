// Package correlation builds pairwise covariance and correlation matrices
// across several assets. Series are compared position by position, so
// callers must align them by date before passing them in.
package correlation

import (
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/perfstats/pkg/stats"
	"github.com/aristath/perfstats/pkg/stats/ratios"
	"github.com/aristath/perfstats/pkg/stats/returns"
	"github.com/aristath/perfstats/pkg/stats/series"
)

// Matrix is a square row-major matrix indexed like the input asset list.
type Matrix [][]float64

func newMatrix(n int) Matrix {
	m := make(Matrix, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}

// CovarianceMatrix returns the n x n sample covariance matrix of the daily
// returns of each series. Each pair is truncated to its shorter common
// length T, which must be at least 2.
func CovarianceMatrix(seriesList []series.PriceSeries) (Matrix, error) {
	all, err := allReturns(seriesList)
	if err != nil {
		return nil, err
	}

	n := len(all)
	m := newMatrix(n)
	err = forEachRow(n, func(i int) error {
		for j := i; j < n; j++ {
			t := min(len(all[i]), len(all[j]))
			if t < 2 {
				return stats.InvalidArgument("%s/%s share %d returns, covariance needs at least 2",
					seriesList[i].Ticker(), seriesList[j].Ticker(), t)
			}
			c := stat.Covariance(all[i][:t], all[j][:t], nil)
			m[i][j] = c
			m[j][i] = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// CorrelationMatrix returns the n x n correlation matrix of the daily
// returns. The cross products run over the common truncated length and are
// divided by that length, while each asset's mean and population standard
// deviation come from its own full return series. Pairs involving a flat
// series correlate at 0. The diagonal is exactly 1.
func CorrelationMatrix(assets []series.PriceSeries) (Matrix, error) {
	if len(assets) == 0 {
		return Matrix{}, nil
	}

	all, err := allReturns(assets)
	if err != nil {
		return nil, err
	}

	n := len(all)
	means := make([]float64, n)
	stdDevs := make([]float64, n)
	for i, r := range all {
		if stats.AllEqual(r) {
			means[i] = r[0]
			continue
		}
		means[i], stdDevs[i] = stat.PopMeanStdDev(r, nil)
	}

	m := newMatrix(n)
	err = forEachRow(n, func(i int) error {
		m[i][i] = 1
		for j := i + 1; j < n; j++ {
			var corr float64
			if stdDevs[i] != 0 && stdDevs[j] != 0 {
				t := min(len(all[i]), len(all[j]))
				var sum float64
				for k := 0; k < t; k++ {
					sum += (all[i][k] - means[i]) * (all[j][k] - means[j])
				}
				corr = (sum / float64(t)) / (stdDevs[i] * stdDevs[j])
			}
			m[i][j] = corr
			m[j][i] = corr
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}

// PortfolioVariance evaluates w' * cov * w.
func PortfolioVariance(cov Matrix, weights []float64) (float64, error) {
	return ratios.PortfolioVariance(cov, weights)
}

// StdDevs returns sqrt of the diagonal, useful for annotating a covariance
// matrix.
func (m Matrix) StdDevs() []float64 {
	out := make([]float64, len(m))
	for i := range m {
		out[i] = math.Sqrt(m[i][i])
	}
	return out
}

func allReturns(seriesList []series.PriceSeries) ([][]float64, error) {
	out := make([][]float64, len(seriesList))
	for i, s := range seriesList {
		r, err := returns.DailyReturns(s)
		if err != nil {
			return nil, fmt.Errorf("asset %d (%s): %w", i, s.Ticker(), err)
		}
		out[i] = r
	}
	return out, nil
}

// forEachRow runs fn for every row index in parallel. Each call writes only
// cells (i, j>=i) and their mirror, so rows never overlap.
func forEachRow(n int, fn func(i int) error) error {
	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			return fn(i)
		})
	}
	return g.Wait()
}
