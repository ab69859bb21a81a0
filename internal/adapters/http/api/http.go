// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/voyage/internal/app"
	"github.com/okian/voyage/internal/adapters/repository"
	"github.com/okian/voyage/internal/domain/evaluate"
	"github.com/okian/voyage/internal/domain/features"
	"github.com/okian/voyage/internal/domain/model"
	"github.com/okian/voyage/internal/domain/stats"
	"github.com/okian/voyage/pkg/logger"
)

const (
	defaultPreviewLimit = 5
	defaultMaxLimit     = 100
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	Status(ctx context.Context) service.Status

	Passengers(ctx context.Context, limit int) ([]model.Passenger, error)
	Passenger(ctx context.Context, id int) (model.Passenger, error)
	Engineered(ctx context.Context, limit int) ([]model.EngineeredPassenger, error)

	BasicStats(ctx context.Context) (*stats.BasicStats, error)
	MissingValues(ctx context.Context) (*stats.MissingValues, error)
	SurvivalByCategory(ctx context.Context) (*stats.CategorySurvival, error)
	FeatureDistributions(ctx context.Context) (*stats.Distributions, error)

	Predict(ctx context.Context, h features.Hypothetical) (service.Prediction, error)
	Models(ctx context.Context) (service.ModelSummary, error)
	ModelMetrics(ctx context.Context) ([]evaluate.ModelScores, error)
}

// Server wires HTTP routes for the pipeline API.
type Server struct {
	maxLimit int
	logger   logger.Logger

	healthHandler     *HealthHandler
	passengersHandler *PassengersHandler
	statsHandler      *StatsHandler
	featuresHandler   *FeaturesHandler
	predictHandler    *PredictHandler
	modelsHandler     *ModelsHandler
	dashboardHandler  *dashboardHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxLimit caps the limit query parameter of preview endpoints.
func WithMaxLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxLimit = n
		}
	}
}

// WithLogger sets the logger used for unexpected failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{maxLimit: defaultMaxLimit, logger: logger.Nop()}
	for _, opt := range opts {
		opt(s)
	}

	s.healthHandler = NewHealthHandler(deps)
	s.passengersHandler = NewPassengersHandler(deps, s.maxLimit, s.logger)
	s.statsHandler = NewStatsHandler(deps, s.logger)
	s.featuresHandler = NewFeaturesHandler(deps, s.maxLimit, s.logger)
	s.predictHandler = NewPredictHandler(deps, s.logger)
	s.modelsHandler = NewModelsHandler(deps, s.logger)
	s.dashboardHandler = newDashboardHandler()
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	route := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}

	route("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	route("GET /status", "status", s.healthHandler.HandleStatus)
	route("GET /passengers", "passengers", s.passengersHandler.HandleList)
	route("GET /passengers/{id}", "passenger", s.passengersHandler.HandleGet)
	route("GET /stats", "stats", s.statsHandler.HandleBasic)
	route("GET /stats/missing", "stats_missing", s.statsHandler.HandleMissing)
	route("GET /stats/survival", "stats_survival", s.statsHandler.HandleSurvival)
	route("GET /features", "features", s.featuresHandler.HandleList)
	route("GET /features/distributions", "features_distributions", s.featuresHandler.HandleDistributions)
	route("POST /predict", "predict", s.predictHandler.HandlePredict)
	route("GET /models", "models", s.modelsHandler.HandleSummary)
	route("GET /models/metrics", "models_metrics", s.modelsHandler.HandleMetrics)
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps an upstream error onto the API's status codes. Internal
// failures are logged and answered with a generic message.
func writeFailure(ctx context.Context, w http.ResponseWriter, l logger.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrLoading):
		writeError(w, http.StatusServiceUnavailable, "loading", NewKind(op, ErrLoading))
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", WrapKind(op, ErrNotFound, err))
	case errors.Is(err, repository.ErrInvalidLimit), errors.Is(err, features.ErrInvalidHypothetical):
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
	default:
		l.Error(ctx, "request failed", logger.String("op", op), logger.Error(err))
		writeError(w, http.StatusInternalServerError, "internal_error", NewKind(op, ErrInternal))
	}
}
