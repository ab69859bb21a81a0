package probe

import "errors"

// Error constants.
var (
	ErrNotReady       = errors.New("service did not become ready")
	ErrUnexpectedCode = errors.New("unexpected status code")
	ErrMismatch       = errors.New("prediction mismatch")
	ErrRequestFailed  = errors.New("prediction request failed")
	ErrInvalidConfig  = errors.New("invalid probe config")
)
