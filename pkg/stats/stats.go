// Package stats is the root of the performance statistics engine.
//
// The sub-packages (series, mathutil, returns, volatility, drawdown,
// correlation, ratios, distribution, movingavg) are pure functions over
// price and return vectors. They hold no state and never log; failures are
// reported through the two error kinds declared here.
package stats

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks malformed or semantically invalid input: empty
	// vectors where data is required, mismatched lengths, out-of-range
	// parameters, or a zero denominator with no defined sentinel value.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrDomain marks input that is well-formed but outside the domain of the
	// formula (e.g. normalising a series with zero standard deviation).
	ErrDomain = errors.New("domain error")
)

// InvalidArgument returns an error wrapping ErrInvalidArgument.
func InvalidArgument(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Domain returns an error wrapping ErrDomain.
func Domain(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrDomain, fmt.Sprintf(format, args...))
}

// AllEqual reports whether every element of data has the same value.
// An empty or single-element slice is trivially constant.
func AllEqual(data []float64) bool {
	for i := 1; i < len(data); i++ {
		if data[i] != data[0] {
			return false
		}
	}
	return true
}
