package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	service "github.com/okian/voyage/internal/app"
	"github.com/okian/voyage/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{client: &http.Client{Timeout: timeout}}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	return c.client.Do(req)
}

// Post performs a POST request with JSON body
func (c *HTTPClient) Post(ctx context.Context, url, requestID string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set(requestIDHeader, requestID)
	}
	return c.client.Do(req)
}

// getJSON fetches url and decodes a 200 response into v.
func (c *HTTPClient) getJSON(ctx context.Context, url string, v any) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	return decodeResponse(resp, v)
}

func decodeResponse(resp *http.Response, v any) error {
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w: %d %s", ErrUnexpectedCode, resp.StatusCode, bytes.TrimSpace(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// Result is the outcome of one /predict round trip.
type Result struct {
	Request    Request            `json:"request"`
	Prediction service.Prediction `json:"prediction"`
	Err        error              `json:"-"`
	Reason     string             `json:"reason,omitempty"`
}

// submitPredictions posts every request using a worker pool and returns
// the results in request order.
func submitPredictions(ctx context.Context, config *Config, requests []Request, stats *Stats) []Result {
	logger.Get().Info(ctx, "submitting predictions",
		logger.Int("count", len(requests)),
		logger.Int("workers", config.Workers))

	client := newHTTPClient(config.Timeout)
	url := config.BaseURL + "/predict"
	results := make([]Result, len(requests))

	var sent, ok, failed int64

	jobs := make(chan int, config.Workers*WorkerChannelMultiplier)
	var wg sync.WaitGroup
	for range config.Workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results[i] = submitSingle(ctx, client, url, requests[i])
				atomic.AddInt64(&sent, 1)
				if results[i].Err != nil {
					atomic.AddInt64(&failed, 1)
					if config.Verbose {
						logger.Get().Warn(ctx, "prediction request failed",
							logger.String("requestId", requests[i].ID),
							logger.Error(results[i].Err))
					}
					continue
				}
				atomic.AddInt64(&ok, 1)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i := range requests {
			select {
			case <-ctx.Done():
				return
			case jobs <- i:
			}
		}
	}()

	wg.Wait()

	stats.PredictionsSent = int(atomic.LoadInt64(&sent))
	stats.PredictionsOK = int(atomic.LoadInt64(&ok))
	stats.PredictionsFailed = int(atomic.LoadInt64(&failed))

	logger.Get().Info(ctx, "prediction submission completed",
		logger.Int("successful", stats.PredictionsOK),
		logger.Int("failed", stats.PredictionsFailed))

	return results[:stats.PredictionsSent:stats.PredictionsSent]
}

// submitSingle posts one request and decodes the prediction.
func submitSingle(ctx context.Context, client *HTTPClient, url string, req Request) Result {
	res := Result{Request: req}
	resp, err := client.Post(ctx, url, req.ID, req.Passenger)
	if err != nil {
		res.Err = err
		return res
	}
	if echoed := resp.Header.Get(requestIDHeader); echoed != req.ID {
		_ = resp.Body.Close()
		res.Err = fmt.Errorf("request id %q echoed as %q", req.ID, echoed)
		return res
	}
	res.Err = decodeResponse(resp, &res.Prediction)
	return res
}
