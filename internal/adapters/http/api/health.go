package api

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	service "github.com/okian/voyage/internal/app"
	"github.com/okian/voyage/pkg/metrics"
)

// StatusProvider reports dataset readiness.
type StatusProvider interface {
	Status(ctx context.Context) service.Status
}

// HealthHandler serves liveness metrics and readiness status.
type HealthHandler struct {
	status  StatusProvider
	metrics http.Handler
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(status StatusProvider) *HealthHandler {
	return &HealthHandler{
		status:  status,
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz with the Prometheus exposition of our registry.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}

// HandleStatus handles GET /status. It answers 200 even while loading so
// clients can poll it.
func (h *HealthHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.status.Status(r.Context()))
}
