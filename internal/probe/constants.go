package probe

import "time"

// Worker configuration constants.
const (
	WorkerChannelMultiplier = 2
)

// Runner configuration constants.
const (
	DefaultPollInterval  = 250 * time.Millisecond
	PercentageMultiplier = 100
	scoreTolerance       = 1e-9
	maxErrorBody         = 512
)

// Generator ranges for hypothetical passengers.
const (
	maxAge       = 80.0
	maxFare      = 300.0
	maxRelatives = 5
)
