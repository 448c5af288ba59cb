package utils

import (
	"time"

	"github.com/rs/zerolog"
)

// Slow-operation thresholds. Report and matrix builds normally finish well
// under a second once prices are cached; fetches dominate otherwise.
const (
	slowOperation     = 10 * time.Second
	verySlowOperation = 30 * time.Second
)

// Timer measures the duration of one operation
type Timer struct {
	start time.Time
	name  string
	log   zerolog.Logger
}

// NewTimer starts a timer for the named operation
func NewTimer(name string, log zerolog.Logger) *Timer {
	return &Timer{
		start: time.Now(),
		name:  name,
		log:   log,
	}
}

// Stop logs the duration at debug level, escalating for slow operations.
func (t *Timer) Stop() time.Duration {
	return t.StopWithFields(nil)
}

// StopWithFields is Stop with extra log fields, e.g. ticker counts.
func (t *Timer) StopWithFields(fields map[string]interface{}) time.Duration {
	duration := time.Since(t.start)

	event := t.log.Debug()
	switch {
	case duration > verySlowOperation:
		event = t.log.Warn()
	case duration > slowOperation:
		event = t.log.Info()
	}

	event.
		Str("operation", t.name).
		Dur("duration_ms", duration).
		Fields(fields).
		Msg("Operation completed")

	return duration
}

// OperationTimer provides a defer-friendly way to measure operation duration
//
// Usage:
//
//	func BuildReport() {
//	    defer utils.OperationTimer("build_report", log)()
//	}
func OperationTimer(operation string, log zerolog.Logger) func() {
	t := NewTimer(operation, log)
	return func() {
		t.Stop()
	}
}
