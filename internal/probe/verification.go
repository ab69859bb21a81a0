package probe

import (
	"context"
	"fmt"
	"math"

	service "github.com/okian/voyage/internal/app"
	"github.com/okian/voyage/internal/domain/features"
	"github.com/okian/voyage/internal/domain/predict"
	"github.com/okian/voyage/pkg/logger"
)

// expected recomputes the prediction for h with the fixed models.
func expected(h features.Hypothetical) service.Prediction {
	ep := h.Engineered()
	v := features.Encode(ep)
	linear := predict.NewLinearModel(predict.DefaultCoefficients)
	tree := predict.DecisionTree{}
	l, t := linear.Predict(v), tree.Predict(v)
	return service.Prediction{
		Passenger:   ep,
		Features:    v,
		LinearScore: linear.Score(v),
		Linear:      l,
		Tree:        t,
		Chance:      predict.SurvivalChance(l, t),
	}
}

// verifyPrediction compares a served prediction with the local one.
func verifyPrediction(h features.Hypothetical, got service.Prediction) error {
	want := expected(h)
	switch {
	case got.Features != want.Features:
		return fmt.Errorf("%w: feature vector %+v, want %+v", ErrMismatch, got.Features, want.Features)
	case math.Abs(got.LinearScore-want.LinearScore) > scoreTolerance:
		return fmt.Errorf("%w: linear score %v, want %v", ErrMismatch, got.LinearScore, want.LinearScore)
	case got.Linear != want.Linear:
		return fmt.Errorf("%w: linear outcome %d, want %d", ErrMismatch, got.Linear, want.Linear)
	case got.Tree != want.Tree:
		return fmt.Errorf("%w: tree outcome %d, want %d", ErrMismatch, got.Tree, want.Tree)
	case got.Chance != want.Chance:
		return fmt.Errorf("%w: chance %q, want %q", ErrMismatch, got.Chance, want.Chance)
	}
	return nil
}

// verifyResults checks every successful result and returns the mismatches.
func verifyResults(ctx context.Context, results []Result, stats *Stats) []Result {
	var mismatches []Result
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if err := verifyPrediction(r.Request.Passenger, r.Prediction); err != nil {
			r.Reason = err.Error()
			mismatches = append(mismatches, r)
			logger.Get().Warn(ctx, "prediction mismatch",
				logger.String("requestId", r.Request.ID),
				logger.Error(err))
		}
	}
	stats.Mismatches = len(mismatches)
	logger.Get().Info(ctx, "verification completed",
		logger.Int("checked", len(results)),
		logger.Int("mismatches", len(mismatches)))
	return mismatches
}
