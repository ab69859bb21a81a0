// Package probe drives a running voyage service over HTTP and checks its
// predictions against a local recomputation.
package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL        string        // Base URL of the service
	NumPredictions int           // Number of hypothetical passengers to submit
	Workers        int           // Number of concurrent workers
	Timeout        time.Duration // HTTP request timeout
	ReadyTimeout   time.Duration // How long to wait for the dataset to load
	PollInterval   time.Duration // Delay between readiness polls
	Seed           int64         // Seed for the hypothetical passenger generator
	OutputFile     string        // Output file for mismatching predictions
	Verbose        bool          // Enable verbose logging
}

// Stats holds probe statistics.
type Stats struct {
	Passengers        int
	SurvivalRate      float64
	ModelsEvaluated   int
	PredictionsSent   int
	PredictionsOK     int
	PredictionsFailed int
	Mismatches        int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
