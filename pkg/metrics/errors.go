package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrUndefinedValue = errors.New("metrics: undefined value")
)
