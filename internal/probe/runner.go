package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	service "github.com/okian/voyage/internal/app"
	"github.com/okian/voyage/internal/domain/stats"
	"github.com/okian/voyage/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	outputPermission    = 0600
)

// modelScores mirrors the /models/metrics response.
type modelScores struct {
	Model     string   `json:"model"`
	Accuracy  *float64 `json:"accuracy"`
	Precision *float64 `json:"precision"`
	Recall    *float64 `json:"recall"`
	F1        *float64 `json:"f1Score"`
}

// Validate checks that the config can drive a run.
func (c *Config) Validate() error {
	switch {
	case c.BaseURL == "":
		return fmt.Errorf("%w: base url is required", ErrInvalidConfig)
	case c.NumPredictions < 0:
		return fmt.Errorf("%w: predictions must not be negative", ErrInvalidConfig)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive", ErrInvalidConfig)
	case c.Timeout <= 0:
		return fmt.Errorf("%w: timeout must be positive", ErrInvalidConfig)
	}
	return nil
}

// Run executes the complete probe. A run with any mismatch returns
// ErrMismatch alongside the collected stats.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	st := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting voyage probe",
		logger.String("baseURL", config.BaseURL),
		logger.Int("predictions", config.NumPredictions),
		logger.Int("workers", config.Workers),
		logger.Duration("timeout", config.Timeout),
		logger.Bool("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Wait for the dataset
	if err := waitReady(ctx, client, config); err != nil {
		return st, err
	}

	// Step 2: Read the dataset summary and model scores
	if err := fetchSummary(ctx, client, config, st); err != nil {
		return st, fmt.Errorf("summary retrieval failed: %w", err)
	}

	// Step 3: Submit hypothetical passengers
	requests := generateRequests(ctx, config.NumPredictions, config.Seed)
	results := submitPredictions(ctx, config, requests, st)

	// Step 4: Recompute and compare
	mismatches := verifyResults(ctx, results, st)
	if len(mismatches) > 0 {
		if err := saveResults(ctx, config, mismatches); err != nil {
			logger.Get().Warn(ctx, "failed to save mismatches to file", logger.Error(err))
		}
	}

	st.EndTime = time.Now()
	st.Duration = st.EndTime.Sub(st.StartTime)
	displayFinalStats(st)

	if len(mismatches) > 0 {
		return st, fmt.Errorf("%w: %d of %d predictions differ", ErrMismatch, len(mismatches), st.PredictionsOK)
	}
	if err := ctx.Err(); err != nil {
		return st, fmt.Errorf("probe interrupted: %w", err)
	}
	if st.PredictionsFailed > 0 {
		return st, fmt.Errorf("%w: %d of %d requests", ErrRequestFailed, st.PredictionsFailed, st.PredictionsSent)
	}
	logger.Get().Info(ctx, "probe completed successfully")
	return st, nil
}

// waitReady polls /status until the dataset has loaded.
func waitReady(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "waiting for dataset")

	interval := config.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	deadline := time.Now().Add(config.ReadyTimeout)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		var status service.Status
		err := client.getJSON(ctx, config.BaseURL+"/status", &status)
		if err == nil && !status.Loading {
			logger.Get().Info(ctx, "dataset ready", logger.Int("passengers", status.Passengers))
			return nil
		}
		if time.Now().After(deadline) {
			if err != nil {
				return fmt.Errorf("%w: %w", ErrNotReady, err)
			}
			return fmt.Errorf("%w: still loading after %s", ErrNotReady, config.ReadyTimeout)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", ErrNotReady, ctx.Err())
		case <-ticker.C:
		}
	}
}

// fetchSummary reads /stats and /models/metrics into st.
func fetchSummary(ctx context.Context, client *HTTPClient, config *Config, st *Stats) error {
	var basic stats.BasicStats
	if err := client.getJSON(ctx, config.BaseURL+"/stats", &basic); err != nil {
		return err
	}
	st.Passengers = basic.TotalPassengers
	st.SurvivalRate = basic.SurvivalRate

	var scores []modelScores
	if err := client.getJSON(ctx, config.BaseURL+"/models/metrics", &scores); err != nil {
		return err
	}
	st.ModelsEvaluated = len(scores)
	for _, s := range scores {
		logger.Get().Info(ctx, "model score",
			logger.String("model", s.Model),
			logger.Any("accuracy", s.Accuracy),
			logger.Any("precision", s.Precision),
			logger.Any("recall", s.Recall),
			logger.Any("f1Score", s.F1))
	}
	return nil
}

// saveResults writes results to a JSON file.
func saveResults(ctx context.Context, config *Config, results []Result) error {
	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "mismatches_" + timestamp + ".json"
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	if err := os.WriteFile(filename, data, outputPermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "mismatches saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats logs the final probe statistics.
func displayFinalStats(st *Stats) {
	var successRate, perSecond float64
	if st.PredictionsSent > 0 {
		successRate = float64(st.PredictionsOK) / float64(st.PredictionsSent) * PercentageMultiplier
	}
	if st.Duration > 0 {
		perSecond = float64(st.PredictionsSent) / st.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("passengers", st.Passengers),
		logger.Float64("survivalRate", st.SurvivalRate),
		logger.Int("modelsEvaluated", st.ModelsEvaluated),
		logger.Int("predictionsSent", st.PredictionsSent),
		logger.Int("predictionsOK", st.PredictionsOK),
		logger.Int("predictionsFailed", st.PredictionsFailed),
		logger.Int("mismatches", st.Mismatches),
		logger.Duration("duration", st.Duration),
		logger.Float64("successRate", successRate),
		logger.Float64("predictionsPerSecond", perSecond))
}
