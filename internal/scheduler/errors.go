package scheduler

import "errors"

// ErrUnknownJob is returned by RunByName for unregistered names
var ErrUnknownJob = errors.New("unknown job")
