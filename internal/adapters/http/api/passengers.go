package api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/okian/voyage/internal/domain/model"
	"github.com/okian/voyage/pkg/logger"
)

// PassengersDependencies defines the interface for raw passenger reads.
type PassengersDependencies interface {
	Passengers(ctx context.Context, limit int) ([]model.Passenger, error)
	Passenger(ctx context.Context, id int) (model.Passenger, error)
}

// PassengersHandler handles raw dataset requests.
type PassengersHandler struct {
	deps     PassengersDependencies
	maxLimit int
	logger   logger.Logger
}

// NewPassengersHandler creates a new passengers handler.
func NewPassengersHandler(deps PassengersDependencies, maxLimit int, l logger.Logger) *PassengersHandler {
	return &PassengersHandler{deps: deps, maxLimit: maxLimit, logger: l}
}

// HandleList handles GET /passengers?limit=N.
func (h *PassengersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_passengers"
	n, err := parseLimit(r, h.maxLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	ps, err := h.deps.Passengers(r.Context(), n)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, ps)
}

// HandleGet handles GET /passengers/{id}.
func (h *PassengersHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_passenger"
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	p, err := h.deps.Passenger(r.Context(), id)
	if err != nil {
		writeFailure(r.Context(), w, h.logger, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// parseLimit reads ?limit, defaulting to defaultPreviewLimit. Values must be
// positive and at most maxLimit.
func parseLimit(r *http.Request, maxLimit int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return min(defaultPreviewLimit, maxLimit), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n < 1 || n > maxLimit {
		return 0, fmt.Errorf("limit %d outside [1,%d]", n, maxLimit)
	}
	return n, nil
}
