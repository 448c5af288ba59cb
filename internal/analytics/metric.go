package analytics

import (
	"encoding/json"
	"math"
	"strconv"
)

// Metric is a float64 that survives JSON encoding when it is +Inf, -Inf or
// NaN, which several ratios legitimately return.
type Metric float64

// MarshalJSON encodes finite values as numbers and the rest as strings.
func (m Metric) MarshalJSON() ([]byte, error) {
	f := float64(m)
	switch {
	case math.IsInf(f, 1):
		return []byte(`"+Inf"`), nil
	case math.IsInf(f, -1):
		return []byte(`"-Inf"`), nil
	case math.IsNaN(f):
		return []byte(`"NaN"`), nil
	}
	return strconv.AppendFloat(nil, f, 'g', -1, 64), nil
}

// UnmarshalJSON accepts both encodings produced by MarshalJSON.
func (m *Metric) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*m = Metric(f)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Metric(f)
	return nil
}

// Float returns the underlying value.
func (m Metric) Float() float64 {
	return float64(m)
}

// Metrics is a JSON-safe float slice.
type Metrics []Metric

func toMetrics(values []float64) Metrics {
	out := make(Metrics, len(values))
	for i, v := range values {
		out[i] = Metric(v)
	}
	return out
}

// Floats converts back to a plain slice.
func (ms Metrics) Floats() []float64 {
	out := make([]float64, len(ms))
	for i, v := range ms {
		out[i] = float64(v)
	}
	return out
}
