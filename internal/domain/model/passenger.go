// Package model contains domain models passed between layers.
package model

// Sex values as they appear in the dataset.
const (
	SexMale   = "male"
	SexFemale = "female"
)

// Embarkation port codes.
const (
	PortCherbourg   = "C"
	PortQueenstown  = "Q"
	PortSouthampton = "S"
)

// Ports lists the known embarkation codes in display order.
var Ports = []string{PortCherbourg, PortSouthampton, PortQueenstown}

// Classes lists the passenger class values.
var Classes = []int{1, 2, 3}

// Outcome is a binary survival label or prediction.
type Outcome int

// Outcome values.
const (
	Died     Outcome = 0
	Survived Outcome = 1
)

// Passenger is one raw voyage record. Nil pointers mean the value was not recorded.
type Passenger struct {
	ID       int      `json:"PassengerId"`
	Survived Outcome  `json:"Survived"`
	Class    int      `json:"Pclass"`
	Name     string   `json:"Name"`
	Sex      string   `json:"Sex"`
	Age      *float64 `json:"Age"`
	SibSp    int      `json:"SibSp"`
	Parch    int      `json:"Parch"`
	Ticket   string   `json:"Ticket"`
	Fare     float64  `json:"Fare"`
	Cabin    *string  `json:"Cabin"`
	Embarked *string  `json:"Embarked"`
}

// EngineeredPassenger is a raw passenger plus attributes derived from it.
type EngineeredPassenger struct {
	Passenger
	Title      string `json:"Title"`
	FamilySize int    `json:"FamilySize"`
	IsAlone    bool   `json:"IsAlone"`
	HasCabin   bool   `json:"HasCabin"`
	AgeBin     string `json:"AgeBin"`
	FareBin    string `json:"FareBin"`
}

// FeatureVector is the fixed-shape numeric encoding consumed by predictors.
type FeatureVector struct {
	Pclass      float64 `json:"Pclass"`
	Sex         float64 `json:"Sex"`
	Age         float64 `json:"Age"`
	Fare        float64 `json:"Fare"`
	EmbarkedC   float64 `json:"Embarked_C"`
	EmbarkedQ   float64 `json:"Embarked_Q"`
	EmbarkedS   float64 `json:"Embarked_S"`
	TitleMaster float64 `json:"Title_Master"`
	TitleMiss   float64 `json:"Title_Miss"`
	TitleMr     float64 `json:"Title_Mr"`
	TitleMrs    float64 `json:"Title_Mrs"`
	TitleRare   float64 `json:"Title_Rare"`
	FamilySize  float64 `json:"FamilySize"`
	IsAlone     float64 `json:"IsAlone"`
	HasCabin    float64 `json:"HasCabin"`
}

// FeatureCount is the number of components in a FeatureVector.
const FeatureCount = 15

// Slice returns the components in canonical order: the order of the struct fields.
func (v FeatureVector) Slice() []float64 {
	return []float64{
		v.Pclass, v.Sex, v.Age, v.Fare,
		v.EmbarkedC, v.EmbarkedQ, v.EmbarkedS,
		v.TitleMaster, v.TitleMiss, v.TitleMr, v.TitleMrs, v.TitleRare,
		v.FamilySize, v.IsAlone, v.HasCabin,
	}
}

// FeatureNames are the wire names of the components, in Slice order.
var FeatureNames = [FeatureCount]string{
	"Pclass", "Sex", "Age", "Fare",
	"Embarked_C", "Embarked_Q", "Embarked_S",
	"Title_Master", "Title_Miss", "Title_Mr", "Title_Mrs", "Title_Rare",
	"FamilySize", "IsAlone", "HasCabin",
}

// Float returns a pointer to v, for building optional numeric fields.
func Float(v float64) *float64 { return &v }

// String returns a pointer to s, for building optional text fields.
func String(s string) *string { return &s }
