package api

import (
	"context"
	"net/http"

	"github.com/okian/voyage/internal/domain/model"
	"github.com/okian/voyage/internal/domain/stats"
	"github.com/okian/voyage/pkg/logger"
)

// FeaturesDependencies defines the interface for engineered feature reads.
type FeaturesDependencies interface {
	Engineered(ctx context.Context, limit int) ([]model.EngineeredPassenger, error)
	FeatureDistributions(ctx context.Context) (*stats.Distributions, error)
}

// FeaturesHandler handles engineered feature requests.
type FeaturesHandler struct {
	deps     FeaturesDependencies
	maxLimit int
	logger   logger.Logger
}

// NewFeaturesHandler creates a new features handler.
func NewFeaturesHandler(deps FeaturesDependencies, maxLimit int, l logger.Logger) *FeaturesHandler {
	return &FeaturesHandler{deps: deps, maxLimit: maxLimit, logger: l}
}

// HandleList handles GET /features?limit=N.
func (h *FeaturesHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_features"
	n, err := parseLimit(r, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	eps, err := h.deps.Engineered(r.Context(), n)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, eps)
}

// HandleDistributions handles GET /features/distributions.
func (h *FeaturesHandler) HandleDistributions(w http.ResponseWriter, r *http.Request) {
	d, err := h.deps.FeatureDistributions(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, "api.feature_distributions", err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}
