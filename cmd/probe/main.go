package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/voyage/internal/probe"
)

// Default configuration constants.
const (
	defaultPredictions  = 500
	defaultWorkers      = 2 // multiplier for runtime.NumCPU()
	defaultTimeout      = 10 * time.Second
	defaultReadyTimeout = 30 * time.Second
	defaultSeed         = 42
	defaultProbeTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL      = flag.String("url", "http://localhost:9080", "Base URL of the service")
		predictions  = flag.Int("predictions", defaultPredictions, "Number of hypothetical passengers to submit")
		workers      = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout      = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		readyTimeout = flag.Duration("ready", defaultReadyTimeout, "How long to wait for the dataset to load")
		seed         = flag.Int64("seed", defaultSeed, "Seed for the hypothetical passenger generator")
		outputFile   = flag.String("output", "", "Output file for mismatching predictions (default: mismatches_TIMESTAMP.json)")
		logFile      = flag.String("log", "", "Log file for probe output (default: probe_log_TIMESTAMP.log)")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
		help         = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		probe.ShowHelp()
		return
	}

	if err := probe.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultProbeTimeout)
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	config := &probe.Config{
		BaseURL:        *baseURL,
		NumPredictions: *predictions,
		Workers:        *workers,
		Timeout:        *timeout,
		ReadyTimeout:   *readyTimeout,
		PollInterval:   probe.DefaultPollInterval,
		Seed:           *seed,
		OutputFile:     *outputFile,
		Verbose:        *verbose,
	}

	if _, err := probe.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Probe failed: " + err.Error() + "\n")
		stop()
		cancel()
		os.Exit(1) //nolint:gocritic // deferred cleanups already invoked
	}
}
