package worker

import "errors"

// Sentinel kinds for task errors.
var (
	ErrTaskPanic = errors.New("task panicked")
	ErrNoRun     = errors.New("task has no run function")
)
