package distribution

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/aristath/perfstats/pkg/stats"
	"github.com/aristath/perfstats/pkg/stats/mathutil"
)

// ValueAtRisk is the historical VaR: the (1-confidence) percentile of the
// return distribution. A 95% VaR of -0.03 means 5% of periods lost more
// than 3%.
func ValueAtRisk(returns []float64, confidence float64) (float64, error) {
	if err := validateConfidence(returns, confidence); err != nil {
		return 0, err
	}
	return mathutil.Percentile(returns, (1-confidence)*100)
}

// ConditionalValueAtRisk (expected shortfall) is the mean of the worst
// ceil(n*(1-confidence)) returns, at least one.
func ConditionalValueAtRisk(returns []float64, confidence float64) (float64, error) {
	if err := validateConfidence(returns, confidence); err != nil {
		return 0, err
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	tailCount := int(math.Ceil(float64(len(sorted)) * (1 - confidence)))
	tailCount = max(1, min(tailCount, len(sorted)))

	return stat.Mean(sorted[:tailCount], nil), nil
}

// ParametricValueAtRisk assumes normally distributed returns and reads the
// (1-confidence) quantile of N(mean, sample stddev).
func ParametricValueAtRisk(returns []float64, confidence float64) (float64, error) {
	if err := validateConfidence(returns, confidence); err != nil {
		return 0, err
	}
	if len(returns) < 2 {
		return 0, stats.InvalidArgument("parametric VaR needs at least 2 returns, got %d", len(returns))
	}

	mean, sd := stat.MeanStdDev(returns, nil)
	if stats.AllEqual(returns) || sd == 0 {
		return mean, nil
	}
	return distuv.Normal{Mu: mean, Sigma: sd}.Quantile(1 - confidence), nil
}

func validateConfidence(returns []float64, confidence float64) error {
	if len(returns) == 0 {
		return stats.InvalidArgument("returns vector is empty")
	}
	if confidence <= 0 || confidence >= 1 {
		return stats.InvalidArgument("confidence must be in (0, 1), got %g", confidence)
	}
	return nil
}
