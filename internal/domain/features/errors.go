package features

import "errors"

// ErrInvalidHypothetical marks a hypothetical passenger with an out-of-range field.
var ErrInvalidHypothetical = errors.New("invalid hypothetical passenger")
