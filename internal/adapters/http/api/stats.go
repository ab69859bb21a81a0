package api

import (
	"context"
	"net/http"

	"github.com/okian/voyage/internal/domain/stats"
	"github.com/okian/voyage/pkg/logger"
)

// StatsDependencies defines the interface for dataset statistics.
type StatsDependencies interface {
	BasicStats(ctx context.Context) (*stats.BasicStats, error)
	MissingValues(ctx context.Context) (*stats.MissingValues, error)
	SurvivalByCategory(ctx context.Context) (*stats.CategorySurvival, error)
}

// StatsHandler handles statistics requests.
type StatsHandler struct {
	deps   StatsDependencies
	logger logger.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(deps StatsDependencies, l logger.Logger) *StatsHandler {
	return &StatsHandler{deps: deps, logger: l}
}

// HandleBasic handles GET /stats.
func (h *StatsHandler) HandleBasic(w http.ResponseWriter, r *http.Request) {
	b, err := h.deps.BasicStats(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, "api.basic_stats", err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// HandleMissing handles GET /stats/missing.
func (h *StatsHandler) HandleMissing(w http.ResponseWriter, r *http.Request) {
	m, err := h.deps.MissingValues(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, "api.missing_values", err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

type groupView struct {
	Total    int     `json:"total"`
	Survived int     `json:"survived"`
	Rate     float64 `json:"rate"`
}

type survivalResponse struct {
	ByClass    map[int]groupView    `json:"byClass"`
	BySex      map[string]groupView `json:"byGender"`
	ByEmbarked map[string]groupView `json:"byEmbarked"`
}

func views[K comparable](groups map[K]*stats.Group) map[K]groupView {
	out := make(map[K]groupView, len(groups))
	for k, g := range groups {
		out[k] = groupView{Total: g.Total, Survived: g.Survived, Rate: g.Rate()}
	}
	return out
}

// HandleSurvival handles GET /stats/survival. Each group carries its
// survival rate as a percentage.
func (h *StatsHandler) HandleSurvival(w http.ResponseWriter, r *http.Request) {
	c, err := h.deps.SurvivalByCategory(r.Context())
	if err != nil {
		writeFailure(r.Context(), w, h.logger, "api.survival_by_category", err)
		return
	}
	if c == nil {
		writeJSON(w, http.StatusOK, nil)
		return
	}
	writeJSON(w, http.StatusOK, survivalResponse{
		ByClass:    views(c.ByClass),
		BySex:      views(c.BySex),
		ByEmbarked: views(c.ByEmbarked),
	})
}
