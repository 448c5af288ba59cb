// Package mathutil holds generic descriptive statistics with no financial
// semantics. Moments are delegated to gonum/stat; the functions here add the
// input validation the rest of the engine relies on.
package mathutil

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/aristath/perfstats/pkg/stats"
)

// Mean calculates the arithmetic mean.
func Mean(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, stats.InvalidArgument("data is empty")
	}
	return stat.Mean(data, nil), nil
}

// Median sorts a copy of data and returns the middle value, averaging the two
// middle values for even lengths.
func Median(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, stats.InvalidArgument("data is empty")
	}

	sorted := sortedCopy(data)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2, nil
	}
	return sorted[n/2], nil
}

// Variance divides by n-1 when sample is true (needs n >= 2) and by n otherwise.
func Variance(data []float64, sample bool) (float64, error) {
	if sample {
		if len(data) < 2 {
			return 0, stats.InvalidArgument("sample variance needs at least 2 points, got %d", len(data))
		}
		return stat.Variance(data, nil), nil
	}

	if len(data) == 0 {
		return 0, stats.InvalidArgument("data is empty")
	}
	return stat.PopVariance(data, nil), nil
}

// StandardDeviation is the square root of Variance.
func StandardDeviation(data []float64, sample bool) (float64, error) {
	v, err := Variance(data, sample)
	if err != nil {
		return 0, err
	}
	return math.Sqrt(v), nil
}

// Min returns the smallest element.
func Min(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, stats.InvalidArgument("data is empty")
	}
	return floats.Min(data), nil
}

// Max returns the largest element.
func Max(data []float64) (float64, error) {
	if len(data) == 0 {
		return 0, stats.InvalidArgument("data is empty")
	}
	return floats.Max(data), nil
}

// Skewness is the adjusted Fisher-Pearson sample skewness
// n/((n-1)(n-2)) * sum(((x-mean)/s)^3). Needs n >= 3.
// Constant data has no defined skew and yields NaN.
func Skewness(data []float64) (float64, error) {
	if len(data) < 3 {
		return 0, stats.InvalidArgument("skewness needs at least 3 points, got %d", len(data))
	}
	if stats.AllEqual(data) {
		return math.NaN(), nil
	}
	return stat.Skew(data, nil), nil
}

// Kurtosis is the sample excess kurtosis
// n(n+1)/((n-1)(n-2)(n-3)) * k - 3(n-1)^2/((n-2)(n-3)) with k = sum(((x-mean)/s)^4).
// Needs n >= 4. Constant data yields NaN.
func Kurtosis(data []float64) (float64, error) {
	if len(data) < 4 {
		return 0, stats.InvalidArgument("kurtosis needs at least 4 points, got %d", len(data))
	}
	if stats.AllEqual(data) {
		return math.NaN(), nil
	}
	return stat.ExKurtosis(data, nil), nil
}

// Percentile linearly interpolates between order statistics at rank
// (p/100)*(n-1). p must lie in [0, 100].
func Percentile(data []float64, p float64) (float64, error) {
	if len(data) == 0 {
		return 0, stats.InvalidArgument("data is empty")
	}
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, stats.InvalidArgument("percentile must be between 0 and 100, got %v", p)
	}

	sorted := sortedCopy(data)
	rank := (p / 100) * float64(len(sorted)-1)
	lower := int(rank)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[lower], nil
	}

	weight := rank - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight, nil
}

// ZScoreNormalize maps each element to (x - mean) / stddev using the
// population standard deviation. Constant data is a domain error.
func ZScoreNormalize(data []float64) ([]float64, error) {
	if len(data) == 0 {
		return nil, stats.InvalidArgument("data is empty")
	}

	if stats.AllEqual(data) {
		return nil, stats.Domain("standard deviation is zero")
	}

	mean, sd := stat.PopMeanStdDev(data, nil)

	result := make([]float64, len(data))
	for i, v := range data {
		result[i] = (v - mean) / sd
	}
	return result, nil
}

func sortedCopy(data []float64) []float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return sorted
}
