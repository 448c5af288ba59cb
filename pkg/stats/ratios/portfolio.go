package ratios

import (
	"gonum.org/v1/gonum/mat"

	"github.com/aristath/perfstats/pkg/stats"
)

// PortfolioVariance evaluates the bilinear form w' * cov * w.
// cov must be len(weights) x len(weights); empty weights give 0.
func PortfolioVariance(cov [][]float64, weights []float64) (float64, error) {
	n := len(weights)
	if len(cov) != n {
		return 0, stats.InvalidArgument("covariance matrix has %d rows, expected %d", len(cov), n)
	}
	if n == 0 {
		return 0, nil
	}

	data := make([]float64, 0, n*n)
	for i, row := range cov {
		if len(row) != n {
			return 0, stats.InvalidArgument("covariance row %d has %d columns, expected %d", i, len(row), n)
		}
		data = append(data, row...)
	}

	w := mat.NewVecDense(n, append([]float64(nil), weights...))
	return mat.Inner(w, mat.NewDense(n, n, data), w), nil
}
