// Package service owns the passenger dataset snapshot and exposes the
// pipeline outputs required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/voyage/internal/adapters/mq/queue"
	"github.com/okian/voyage/internal/adapters/mq/worker"
	"github.com/okian/voyage/internal/adapters/repository"
	"github.com/okian/voyage/internal/domain/dataset"
	"github.com/okian/voyage/internal/domain/evaluate"
	"github.com/okian/voyage/internal/domain/features"
	"github.com/okian/voyage/internal/domain/model"
	"github.com/okian/voyage/internal/domain/predict"
	"github.com/okian/voyage/internal/domain/stats"
	"github.com/okian/voyage/pkg/logger"
	"github.com/okian/voyage/pkg/metrics"
)

const (
	// defaultLoadDelay mimics the time a real dataset takes to arrive.
	defaultLoadDelay = time.Second

	defaultStageWorkers = 4
)

// snapshot is everything derived from one generated dataset. It is built once
// and never mutated, so readers share it without locking.
type snapshot struct {
	store         repository.Store
	engineered    []model.EngineeredPassenger
	basic         *stats.BasicStats
	missing       *stats.MissingValues
	survival      *stats.CategorySurvival
	distributions *stats.Distributions
	scores        []evaluate.ModelScores
}

// Status reports readiness of the service.
type Status struct {
	Loading    bool `json:"loading"`
	Passengers int  `json:"passengers"`
}

// Prediction is the outcome of both models for one hypothetical passenger.
type Prediction struct {
	Passenger   model.EngineeredPassenger `json:"passenger"`
	Features    model.FeatureVector       `json:"features"`
	LinearScore float64                   `json:"linearScore"`
	Linear      model.Outcome             `json:"linearRegression"`
	Tree        model.Outcome             `json:"decisionTree"`
	Chance      predict.Chance            `json:"survivalChance"`
}

// Service implements the API dependencies for the passenger pipeline.
type Service struct {
	mu sync.Mutex

	// Configuration
	datasetSize  int
	seed         int64
	loadDelay    time.Duration
	stageWorkers int
	genOpts      []dataset.Option

	// Models
	linear predict.Predictor
	tree   predict.Predictor

	// State
	current atomic.Pointer[snapshot]
	ready   chan struct{}
	started bool
	stopped bool
	stopCh  chan struct{}

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDatasetSize sets the number of passengers to generate.
func WithDatasetSize(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.datasetSize = n
		}
	}
}

// WithSeed seeds the dataset generator.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithLoadDelay sets the simulated loading delay. Zero loads immediately.
func WithLoadDelay(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.loadDelay = d
		}
	}
}

// WithStageWorkers sets how many workers run the aggregation stages.
func WithStageWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.stageWorkers = n
		}
	}
}

// WithMaleProbability sets the chance that a synthetic passenger is male.
func WithMaleProbability(p float64) Option {
	return func(s *Service) {
		s.genOpts = append(s.genOpts, dataset.WithMaleProbability(p))
	}
}

// WithUnknownAgeProbability sets the chance that a synthetic age is unknown.
func WithUnknownAgeProbability(p float64) Option {
	return func(s *Service) {
		s.genOpts = append(s.genOpts, dataset.WithUnknownAgeProbability(p))
	}
}

// WithSurvivalProbability sets the chance that a synthetic passenger survived.
func WithSurvivalProbability(p float64) Option {
	return func(s *Service) {
		s.genOpts = append(s.genOpts, dataset.WithSurvivalProbability(p))
	}
}

// WithModels replaces the linear and tree predictors.
func WithModels(linear, tree predict.Predictor) Option {
	return func(s *Service) {
		if linear != nil && tree != nil {
			s.linear, s.tree = linear, tree
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		datasetSize:  dataset.DefaultTargetSize,
		seed:         dataset.DefaultRandomSeed,
		loadDelay:    defaultLoadDelay,
		stageWorkers: defaultStageWorkers,
		linear:       predict.NewLinearModel(predict.DefaultCoefficients),
		tree:         predict.DecisionTree{},
		ready:        make(chan struct{}),
		stopCh:       make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start schedules the one-shot dataset load. It returns immediately; reads
// fail with ErrLoading until Ready is closed.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return ErrStopped
	}
	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}
	s.logger = s.logger.Named("service")

	s.started = true
	metrics.SetDatasetReady(false)
	s.logger.Info(ctx, "loading passenger dataset",
		logger.Int("size", s.datasetSize),
		logger.Duration("delay", s.loadDelay),
	)

	go s.loadAfterDelay(ctx, time.Now())
	return nil
}

func (s *Service) loadAfterDelay(ctx context.Context, begun time.Time) {
	timer := time.NewTimer(s.loadDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		s.logger.Warn(ctx, "dataset load cancelled", logger.Error(ctx.Err()))
		return
	case <-s.stopCh:
		return
	case <-timer.C:
	}

	snap, err := s.build(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "build")
		s.logger.Error(ctx, "dataset build failed", logger.Error(err))
		return
	}
	s.current.Store(snap)
	close(s.ready)

	took := time.Since(begun)
	metrics.SetDatasetReady(true)
	metrics.RecordDatasetLoad(took)
	s.logger.Info(ctx, "passenger dataset ready",
		logger.Int("passengers", len(snap.engineered)),
		logger.Duration("took", took),
	)
}

// build runs the whole pipeline once over a freshly generated dataset.
// Generation and engineering run in order; the aggregations that only read
// their output run as tasks on a worker pool.
func (s *Service) build(ctx context.Context) (*snapshot, error) {
	opts := append([]dataset.Option{
		dataset.WithTargetSize(s.datasetSize),
		dataset.WithRand(rand.New(rand.NewSource(s.seed))), //nolint:gosec // reproducible synthetic data
	}, s.genOpts...)

	var ps []model.Passenger
	if err := stage("generate", func() { ps = dataset.Generate(opts...) }); err != nil {
		return nil, err
	}

	snap := &snapshot{store: repository.NewSnapshot(ps)}
	if err := stage("engineer", func() { snap.engineered = features.EngineerAll(ps) }); err != nil {
		return nil, err
	}

	tasks := []queue.Task{
		{Name: "basic_stats", Run: func(context.Context) error { snap.basic = stats.Basic(ps); return nil }},
		{Name: "missing_values", Run: func(context.Context) error { snap.missing = stats.Missing(ps); return nil }},
		{Name: "survival", Run: func(context.Context) error { snap.survival = stats.SurvivalByCategory(ps); return nil }},
		{Name: "distributions", Run: func(context.Context) error {
			snap.distributions = stats.FeatureDistributions(snap.engineered)
			return nil
		}},
		{Name: "evaluate", Run: func(context.Context) error {
			snap.scores = evaluate.Evaluate(snap.engineered, s.linear, s.tree)
			return nil
		}},
	}

	q := queue.NewInMemoryQueue(queue.WithCapacity(len(tasks)))
	pool := worker.NewPool(s.stageWorkers, q, s.logger.Named("stages"))
	pool.Start(ctx)
	for _, t := range tasks {
		if err := q.Enqueue(ctx, t); err != nil {
			_ = pool.Shutdown(ctx)
			return nil, fmt.Errorf("enqueue %s: %w", t.Name, err)
		}
	}
	_ = q.Close()
	if err := pool.Wait(ctx); err != nil {
		return nil, err
	}

	for _, ms := range snap.scores {
		s.publishScores(ctx, ms)
	}
	return snap, nil
}

func (s *Service) publishScores(ctx context.Context, ms evaluate.ModelScores) {
	values := map[string]float64{
		"accuracy":  ms.Scores.Accuracy,
		"precision": ms.Scores.Precision,
		"recall":    ms.Scores.Recall,
		"f1":        ms.Scores.F1,
	}
	for name, v := range values {
		if err := metrics.SetModelScore(ms.Model, name, v); err != nil {
			s.logger.Debug(ctx, "model metric undefined",
				logger.String("model", ms.Model),
				logger.String("metric", name),
			)
		}
	}
}

// stage runs one sequential build step. A panic is reported the same way the
// worker pool reports it for pooled stages.
func stage(name string, fn func()) (err error) {
	begun := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %s: %v", worker.ErrTaskPanic, name, r)
		}
		metrics.RecordStageLatency(name, float64(time.Since(begun).Microseconds())/1000)
	}()
	fn()
	return nil
}

// Stop cancels a pending load. Reads keep working on a loaded snapshot.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.stopped = true
	close(s.stopCh)
	if s.logger != nil {
		s.logger.Info(context.Background(), "service stopped")
	}
}

// Ready is closed once the dataset snapshot is loaded.
func (s *Service) Ready() <-chan struct{} {
	return s.ready
}

// Loading reports whether the dataset is not yet available.
func (s *Service) Loading() bool {
	return s.current.Load() == nil
}

// Status returns readiness and dataset size.
func (s *Service) Status(ctx context.Context) Status {
	snap := s.current.Load()
	if snap == nil {
		return Status{Loading: true}
	}
	return Status{Passengers: snap.store.Count(ctx)}
}

func (s *Service) snapshot() (*snapshot, error) {
	snap := s.current.Load()
	if snap == nil {
		metrics.RecordErrorByComponent("service", "loading")
		return nil, ErrLoading
	}
	return snap, nil
}

// Passengers returns the first limit raw passengers.
func (s *Service) Passengers(ctx context.Context, limit int) ([]model.Passenger, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.store.Head(ctx, limit)
}

// Passenger returns one raw passenger by id.
func (s *Service) Passenger(ctx context.Context, id int) (model.Passenger, error) {
	snap, err := s.snapshot()
	if err != nil {
		return model.Passenger{}, err
	}
	return snap.store.Get(ctx, id)
}

// Engineered returns the first limit engineered passengers.
func (s *Service) Engineered(_ context.Context, limit int) ([]model.EngineeredPassenger, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	if limit <= 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, repository.ErrInvalidLimit)
	}
	limit = min(limit, len(snap.engineered))
	out := make([]model.EngineeredPassenger, limit)
	copy(out, snap.engineered[:limit])
	return out, nil
}

// BasicStats returns the headline statistics of the dataset.
func (s *Service) BasicStats(_ context.Context) (*stats.BasicStats, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.basic, nil
}

// MissingValues returns the missing-value counts of the dataset.
func (s *Service) MissingValues(_ context.Context) (*stats.MissingValues, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.missing, nil
}

// SurvivalByCategory returns survival grouped by class, sex and port.
func (s *Service) SurvivalByCategory(_ context.Context) (*stats.CategorySurvival, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.survival, nil
}

// FeatureDistributions returns the distributions of the engineered features.
func (s *Service) FeatureDistributions(_ context.Context) (*stats.Distributions, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	return snap.distributions, nil
}

// ModelMetrics returns both models' scores over the whole dataset.
func (s *Service) ModelMetrics(_ context.Context) ([]evaluate.ModelScores, error) {
	snap, err := s.snapshot()
	if err != nil {
		return nil, err
	}
	out := make([]evaluate.ModelScores, len(snap.scores))
	copy(out, snap.scores)
	return out, nil
}

// ModelSummary describes the fixed models. A model that cannot describe
// itself, such as one injected with WithModels, is omitted.
type ModelSummary struct {
	Linear *predict.LinearSummary `json:"linearRegression,omitempty"`
	Tree   *predict.TreeSummary   `json:"decisionTree,omitempty"`
}

// Models returns the parameters of both models. Like Predict it does not need
// the dataset.
func (s *Service) Models(_ context.Context) (ModelSummary, error) {
	var out ModelSummary
	if m, ok := s.linear.(interface{ Summary() predict.LinearSummary }); ok {
		ls := m.Summary()
		out.Linear = &ls
	}
	if m, ok := s.tree.(interface{ Summary() predict.TreeSummary }); ok {
		ts := m.Summary()
		out.Tree = &ts
	}
	return out, nil
}

// Predict runs both models on a hypothetical passenger. It does not need the
// dataset, so it works while loading. A failure anywhere in the pipeline is
// reported as ErrPrediction and never crashes the caller.
func (s *Service) Predict(ctx context.Context, h features.Hypothetical) (p Prediction, err error) {
	if err := h.Validate(); err != nil {
		return Prediction{}, err
	}

	begun := time.Now()
	defer func() {
		if r := recover(); r != nil {
			metrics.RecordErrorByComponent("service", "prediction_panic")
			s.log().Error(ctx, "prediction panicked", logger.Any("panic", r))
			p, err = Prediction{}, fmt.Errorf("%w: %v", ErrPrediction, r)
		}
	}()

	p = s.predict(h)

	metrics.RecordPrediction(s.linear.Name(), int(p.Linear))
	metrics.RecordPrediction(s.tree.Name(), int(p.Tree))
	metrics.RecordPredictionLatency(float64(time.Since(begun).Microseconds()) / 1000)
	s.log().Debug(ctx, "prediction",
		logger.Float64("score", p.LinearScore),
		logger.String("chance", string(p.Chance)),
	)
	return p, nil
}

func (s *Service) predict(h features.Hypothetical) Prediction {
	ep := h.Engineered()
	v := features.Encode(ep)
	linear, tree := s.linear.Predict(v), s.tree.Predict(v)
	p := Prediction{
		Passenger: ep,
		Features:  v,
		Linear:    linear,
		Tree:      tree,
		Chance:    predict.SurvivalChance(linear, tree),
	}
	if sc, ok := s.linear.(scorer); ok {
		p.LinearScore = sc.Score(v)
	}
	return p
}

// scorer is implemented by predictors that expose their raw score.
type scorer interface {
	Score(model.FeatureVector) float64
}

// log returns the service logger, falling back to the global one before Start.
func (s *Service) log() logger.Logger {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}
