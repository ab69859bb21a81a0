package api

import (
	"context"
	"net/http"

	service "github.com/okian/voyage/internal/app"
	"github.com/okian/voyage/internal/domain/evaluate"
	"github.com/okian/voyage/pkg/logger"
)

// ModelsDependencies defines the interface for model reads.
type ModelsDependencies interface {
	Models(ctx context.Context) (service.ModelSummary, error)
	ModelMetrics(ctx context.Context) ([]evaluate.ModelScores, error)
}

// ModelsHandler handles model metric requests.
type ModelsHandler struct {
	deps   ModelsDependencies
	logger logger.Logger
}

// NewModelsHandler creates a new models handler.
func NewModelsHandler(deps ModelsDependencies, l logger.Logger) *ModelsHandler {
	return &ModelsHandler{deps: deps, logger: l}
}

// scoresView is the wire shape of evaluate.Scores. Undefined metrics are null
// because JSON has no NaN.
type scoresView struct {
	Model          string   `json:"model"`
	Accuracy       *float64 `json:"accuracy"`
	Precision      *float64 `json:"precision"`
	Recall         *float64 `json:"recall"`
	F1             *float64 `json:"f1Score"`
	TruePositives  int      `json:"truePositives"`
	FalsePositives int      `json:"falsePositives"`
	TrueNegatives  int      `json:"trueNegatives"`
	FalseNegatives int      `json:"falseNegatives"`
}

func defined(x float64) *float64 {
	if !evaluate.Defined(x) {
		return nil
	}
	return &x
}

// HandleSummary handles GET /models. It serves while the dataset loads.
func (h *ModelsHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.Models(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, "api.models", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

// HandleMetrics handles GET /models/metrics.
func (h *ModelsHandler) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	ms, err := h.deps.ModelMetrics(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, "api.model_metrics", err)
		return
	}
	out := make([]scoresView, len(ms))
	for i, m := range ms {
		s := m.Scores
		out[i] = scoresView{
			Model:          m.Model,
			Accuracy:       defined(s.Accuracy),
			Precision:      defined(s.Precision),
			Recall:         defined(s.Recall),
			F1:             defined(s.F1),
			TruePositives:  s.TruePositives,
			FalsePositives: s.FalsePositives,
			TrueNegatives:  s.TrueNegatives,
			FalseNegatives: s.FalseNegatives,
		}
	}
	writeJSON(w, http.StatusOK, out)
}
