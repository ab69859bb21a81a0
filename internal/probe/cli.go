package probe

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/okian/voyage/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "probe_log_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	if err := logger.InitWithWriter(io.MultiWriter(os.Stdout, file)); err != nil {
		_ = file.Close()
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the probe tool.
func ShowHelp() {
	os.Stdout.WriteString(`Voyage Probe
============

Checks a running voyage service end to end. The probe waits for the
dataset to load, reads the statistics and model scores, then submits
random hypothetical passengers to /predict and recomputes every answer
locally.

Usage:
  go run ./cmd/probe [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -predictions int
        Number of hypothetical passengers to submit (default 500)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 10s)
  -ready duration
        How long to wait for the dataset to load (default 30s)
  -seed int
        Seed for the hypothetical passenger generator (default 42)
  -output string
        Output file for mismatching predictions (default: mismatches_TIMESTAMP.json)
  -log string
        Log file for probe output (default: probe_log_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Probe a local service
  go run ./cmd/probe

  # Probe with more load
  go run ./cmd/probe -predictions 10000 -workers 16 -url http://localhost:8080
`)
}
