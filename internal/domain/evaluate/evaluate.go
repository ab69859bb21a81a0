// Package evaluate scores predictors against the ground-truth survival labels.
package evaluate

import (
	"math"

	"github.com/okian/voyage/internal/domain/features"
	"github.com/okian/voyage/internal/domain/model"
	"github.com/okian/voyage/internal/domain/predict"
)

// Scores are the quality metrics of one predictor. A metric whose denominator
// is zero is NaN; use Defined before displaying it.
type Scores struct {
	Accuracy  float64
	Precision float64
	Recall    float64
	F1        float64

	TruePositives  int
	FalsePositives int
	TrueNegatives  int
	FalseNegatives int
}

// ModelScores pairs a predictor name with its scores.
type ModelScores struct {
	Model  string
	Scores Scores
}

// Defined reports whether x is a real number.
func Defined(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Evaluate encodes every passenger once and scores each predictor over the
// whole collection. Results follow the order of predictors.
func Evaluate(eps []model.EngineeredPassenger, predictors ...predict.Predictor) []ModelScores {
	vectors := make([]model.FeatureVector, len(eps))
	actual := make([]model.Outcome, len(eps))
	for i, ep := range eps {
		vectors[i] = features.Encode(ep)
		actual[i] = ep.Survived
	}

	out := make([]ModelScores, 0, len(predictors))
	for _, p := range predictors {
		predicted := make([]model.Outcome, len(vectors))
		for i, v := range vectors {
			predicted[i] = p.Predict(v)
		}
		out = append(out, ModelScores{Model: p.Name(), Scores: Score(predicted, actual)})
	}
	return out
}

// Score compares predicted against actual position by position. Both slices
// must have the same length; extra entries in the longer one are ignored.
func Score(predicted, actual []model.Outcome) Scores {
	n := min(len(predicted), len(actual))
	var s Scores
	for i := 0; i < n; i++ {
		switch {
		case predicted[i] == model.Survived && actual[i] == model.Survived:
			s.TruePositives++
		case predicted[i] == model.Survived && actual[i] == model.Died:
			s.FalsePositives++
		case predicted[i] == model.Died && actual[i] == model.Survived:
			s.FalseNegatives++
		default:
			s.TrueNegatives++
		}
	}

	s.Accuracy = ratio(s.TruePositives+s.TrueNegatives, n)
	s.Precision = ratio(s.TruePositives, s.TruePositives+s.FalsePositives)
	s.Recall = ratio(s.TruePositives, s.TruePositives+s.FalseNegatives)
	s.F1 = f1(s.Precision, s.Recall)
	return s
}

func ratio(num, den int) float64 {
	if den == 0 {
		return math.NaN()
	}
	return float64(num) / float64(den)
}

// f1 is the harmonic mean; NaN when either input is NaN or both are zero.
func f1(precision, recall float64) float64 {
	if !Defined(precision) || !Defined(recall) || precision+recall == 0 {
		return math.NaN()
	}
	return 2 * precision * recall / (precision + recall)
}
