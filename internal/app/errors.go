package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrLoading is returned by every read while the dataset is still loading.
	ErrLoading = errors.New("dataset is still loading")
	// ErrPrediction wraps a failure inside the prediction pipeline.
	ErrPrediction = errors.New("prediction failed")
	// ErrStopped is returned by Start after Stop.
	ErrStopped = errors.New("service stopped")
)
