// Package predict holds the two fixed survival classifiers. Neither is
// trained: the linear model's coefficients and the tree's rules are constants.
package predict

import (
	"gonum.org/v1/gonum/mat"

	"github.com/okian/voyage/internal/domain/model"
)

// Predictor maps a feature vector to a binary outcome.
type Predictor interface {
	Name() string
	Predict(v model.FeatureVector) model.Outcome
}

// Model names.
const (
	LinearName = "linear_regression"
	TreeName   = "decision_tree"
)

// Threshold is the linear score above which a passenger is predicted to survive.
const Threshold = 0.5

// Coefficients are the weights of the linear model, one per feature.
type Coefficients struct {
	Intercept float64
	Weights   model.FeatureVector
}

// DefaultCoefficients are the calibrated weights of the linear model.
var DefaultCoefficients = Coefficients{
	Intercept: 0.042,
	Weights: model.FeatureVector{
		Pclass:      -0.15,
		Sex:         0.53,
		Age:         -0.007,
		Fare:        0.0023,
		EmbarkedC:   0.13,
		EmbarkedQ:   0.05,
		EmbarkedS:   -0.15,
		TitleMaster: 0.36,
		TitleMiss:   0.32,
		TitleMr:     -0.28,
		TitleMrs:    0.31,
		TitleRare:   0.12,
		FamilySize:  -0.02,
		IsAlone:     -0.08,
		HasCabin:    0.14,
	},
}

// LinearModel is a weighted sum compared against Threshold.
type LinearModel struct {
	intercept float64
	weights   *mat.VecDense
}

// NewLinearModel creates a linear model from c.
func NewLinearModel(c Coefficients) *LinearModel {
	return &LinearModel{
		intercept: c.Intercept,
		weights:   mat.NewVecDense(model.FeatureCount, c.Weights.Slice()),
	}
}

// Name implements Predictor.
func (m *LinearModel) Name() string { return LinearName }

// Score returns intercept + Σ weight_i × feature_i.
func (m *LinearModel) Score(v model.FeatureVector) float64 {
	return m.intercept + mat.Dot(m.weights, mat.NewVecDense(model.FeatureCount, v.Slice()))
}

// Predict implements Predictor.
func (m *LinearModel) Predict(v model.FeatureVector) model.Outcome {
	if m.Score(v) > Threshold {
		return model.Survived
	}
	return model.Died
}

// DecisionTree is the hand-written classification rule.
type DecisionTree struct{}

// Age cut-offs of the tree.
const (
	femaleAgeLimit = 30
	childAgeLimit  = 10
	wealthyFare    = 50
)

// Name implements Predictor.
func (DecisionTree) Name() string { return TreeName }

// Predict implements Predictor.
func (DecisionTree) Predict(v model.FeatureVector) model.Outcome {
	if v.Sex == 1 {
		if v.Pclass == 1 || v.Pclass == 2 {
			return model.Survived
		}
		if v.Age < femaleAgeLimit {
			return model.Survived
		}
		return model.Died
	}
	switch {
	case v.Age < childAgeLimit:
		return model.Survived
	case v.Pclass == 1 && v.Fare > wealthyFare:
		return model.Survived
	default:
		return model.Died
	}
}

// Chance is the qualitative survival label derived from both models.
type Chance string

// Chance labels.
const (
	VeryHigh Chance = "Very High"
	VeryLow  Chance = "Very Low"
	Moderate Chance = "Moderate"
)

// SurvivalChance combines the two model outcomes: agreement gives Very High or
// Very Low, disagreement gives Moderate.
func SurvivalChance(linear, tree model.Outcome) Chance {
	switch {
	case linear == model.Survived && tree == model.Survived:
		return VeryHigh
	case linear == model.Died && tree == model.Died:
		return VeryLow
	default:
		return Moderate
	}
}
