package repository

import "errors"

// Sentinel kinds for snapshot errors.
var (
	ErrNotFound     = errors.New("passenger not found")
	ErrInvalidLimit = errors.New("invalid passenger limit")
)
