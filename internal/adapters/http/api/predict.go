package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/voyage/internal/app"
	"github.com/okian/voyage/internal/domain/features"
	"github.com/okian/voyage/pkg/logger"
)

// maxPredictBody bounds the size of a POST /predict body.
const maxPredictBody = 1 << 16

// PredictDependencies defines the interface for hypothetical predictions.
type PredictDependencies interface {
	Predict(ctx context.Context, h features.Hypothetical) (service.Prediction, error)
}

// PredictHandler handles prediction requests.
type PredictHandler struct {
	deps   PredictDependencies
	logger logger.Logger
}

// NewPredictHandler creates a new predict handler.
func NewPredictHandler(deps PredictDependencies, l logger.Logger) *PredictHandler {
	return &PredictHandler{deps: deps, logger: l}
}

// HandlePredict handles POST /predict. The body is a hypothetical passenger
// whose fields are all optional.
func (h *PredictHandler) HandlePredict(w http.ResponseWriter, r *http.Request) {
	const op = "api.predict"
	var req features.Hypothetical
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxPredictBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	p, err := h.deps.Predict(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrPrediction) {
			h.logger.Error(r.Context(), "prediction failed", logger.Error(err))
			writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
			return
		}
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
