// Package drawdown analyses declines from running peaks in a cumulative
// return path (a compounded wealth index, not raw prices).
//
// Drawdown formula:
//
//	Drawdown = (Peak Value - Current Value) / Peak Value
//
// Drawdowns are reported as positive fractions (0.25 = 25% below the peak).
package drawdown

import (
	"math"

	"github.com/aristath/perfstats/pkg/stats"
)

// Metrics summarises the drawdown state of a path.
type Metrics struct {
	MaxDrawdown      float64 `json:"max_drawdown"`
	CurrentDrawdown  float64 `json:"current_drawdown"`
	PeriodsSincePeak int     `json:"periods_since_peak"`
	PeakValue        float64 `json:"peak_value"`
	CurrentValue     float64 `json:"current_value"`
}

// MaxDrawdown returns the largest peak-to-trough decline. Empty or never
// declining paths give 0. Non-positive peaks are skipped.
func MaxDrawdown(path []float64) float64 {
	if len(path) == 0 {
		return 0
	}

	maxDrawdown := 0.0
	peak := path[0]
	for _, value := range path {
		if value > peak {
			peak = value
		}
		if peak > 0 {
			if dd := (peak - value) / peak; dd > maxDrawdown {
				maxDrawdown = dd
			}
		}
	}
	return maxDrawdown
}

// AverageDrawdown averages (peak - trough) / peak over every drawdown
// episode. An episode opens when the path falls below its running peak and
// closes when it gets back to it. An episode still open at the end counts.
func AverageDrawdown(path []float64) float64 {
	if len(path) == 0 {
		return 0
	}

	var sum float64
	episodes := 0

	peak := path[0]
	trough := path[0]
	inDrawdown := false

	closeEpisode := func() {
		if trough < peak && peak > 0 {
			sum += (peak - trough) / peak
			episodes++
		}
	}

	for _, value := range path[1:] {
		if value >= peak {
			if inDrawdown {
				closeEpisode()
				inDrawdown = false
			}
			peak = value
			trough = value
			continue
		}

		if !inDrawdown {
			inDrawdown = true
			trough = value
		} else if value < trough {
			trough = value
		}
	}
	if inDrawdown {
		closeEpisode()
	}

	if episodes == 0 {
		return 0
	}
	return sum / float64(episodes)
}

// MaxRecoveryTime returns the longest episode length in steps, measured from
// the first point below the peak to the point the peak is regained. An
// unrecovered episode runs to the end of the path.
func MaxRecoveryTime(path []float64) int {
	if len(path) == 0 {
		return 0
	}

	longest := 0
	peak := path[0]
	start := -1

	for i, value := range path {
		if value >= peak {
			if start >= 0 {
				longest = max(longest, i-start)
				start = -1
			}
			peak = value
			continue
		}
		if start < 0 {
			start = i
		}
	}
	if start >= 0 {
		longest = max(longest, len(path)-start)
	}
	return longest
}

// Calculate returns the full drawdown summary of a path.
func Calculate(path []float64) (Metrics, error) {
	if len(path) < 2 {
		return Metrics{}, stats.InvalidArgument("drawdown metrics need at least 2 points, got %d", len(path))
	}

	peak := path[0]
	peakIndex := 0
	for i, value := range path {
		if value > peak {
			peak = value
			peakIndex = i
		}
	}

	current := path[len(path)-1]
	currentDrawdown := 0.0
	if peak > 0 {
		currentDrawdown = (peak - current) / peak
	}

	return Metrics{
		MaxDrawdown:      MaxDrawdown(path),
		CurrentDrawdown:  currentDrawdown,
		PeriodsSincePeak: len(path) - 1 - peakIndex,
		PeakValue:        peak,
		CurrentValue:     current,
	}, nil
}

// UlcerIndex is the root mean square of the drawdown at every point, which
// weighs both depth and duration of declines.
func UlcerIndex(path []float64) (float64, error) {
	if len(path) == 0 {
		return 0, stats.InvalidArgument("path is empty")
	}

	peak := path[0]
	var sumSquares float64
	for _, value := range path {
		if value > peak {
			peak = value
		}
		if peak > 0 {
			dd := (peak - value) / peak
			sumSquares += dd * dd
		}
	}
	return math.Sqrt(sumSquares / float64(len(path))), nil
}
