// Package movingavg wraps the TA-Lib simple and exponential moving averages.
//
// Both functions drop TA-Lib's lookback padding: the first output value is
// the average of the first full window, so len(out) == len(data)-window+1.
package movingavg

import (
	"github.com/markcheno/go-talib"
)

// SMA is the simple moving average over window observations.
func SMA(data []float64, window int) []float64 {
	if !valid(data, window) {
		return []float64{}
	}
	if window == 1 {
		return append([]float64(nil), data...)
	}
	return talib.Sma(data, window)[window-1:]
}

// EMA is the exponential moving average with multiplier 2/(window+1),
// seeded with the SMA of the first window.
//
//	EMA_today = (Price_today × multiplier) + (EMA_yesterday × (1 - multiplier))
func EMA(data []float64, window int) []float64 {
	if !valid(data, window) {
		return []float64{}
	}
	if window == 1 {
		return append([]float64(nil), data...)
	}
	return talib.Ema(data, window)[window-1:]
}

func valid(data []float64, window int) bool {
	return window >= 1 && len(data) >= window
}
