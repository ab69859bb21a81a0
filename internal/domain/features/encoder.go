package features

import (
	"fmt"
	"strings"

	"github.com/okian/voyage/internal/domain/model"
)

// Defaults substituted for missing values.
const (
	// DefaultAge is the dataset median age, imputed when age is unknown.
	DefaultAge = 29.7
	// DefaultEmbarked is the most frequent port of the seed records.
	DefaultEmbarked = model.PortSouthampton
	// DefaultFare is the median fare, used for hypothetical passengers that omit it.
	DefaultFare = 14.45
	// DefaultClass is used for hypothetical passengers that omit their class.
	DefaultClass = 3
)

// TitleGroup is one of the five title buckets used by the models.
type TitleGroup string

// Title groups.
const (
	TitleMr     TitleGroup = "Mr"
	TitleMrs    TitleGroup = "Mrs"
	TitleMiss   TitleGroup = "Miss"
	TitleMaster TitleGroup = "Master"
	TitleRare   TitleGroup = "Rare"
)

var titleGroups = map[string]TitleGroup{
	"Mr.": TitleMr, "Don.": TitleMr, "Rev.": TitleMr, "Major.": TitleMr, "Col.": TitleMr, "Capt.": TitleMr,
	"Mrs.": TitleMrs, "Mme.": TitleMrs, "Countess.": TitleMrs,
	"Miss.": TitleMiss, "Mlle.": TitleMiss, "Ms.": TitleMiss,
	"Master.": TitleMaster,
}

// GroupTitle buckets a title. Only the dotted form matches a group, so
// extracted titles ("Mr") and anything unrecognised fall into Rare.
func GroupTitle(title string) TitleGroup {
	if g, ok := titleGroups[title]; ok {
		return g
	}
	return TitleRare
}

// Encode maps an engineered passenger to its feature vector. It is total: every
// input produces a vector with exactly one port flag and one title flag set.
func Encode(ep model.EngineeredPassenger) model.FeatureVector {
	v := model.FeatureVector{
		Pclass:     float64(ep.Class),
		Sex:        1,
		Age:        DefaultAge,
		Fare:       ep.Fare,
		FamilySize: float64(ep.FamilySize),
		IsAlone:    flag(ep.IsAlone),
		HasCabin:   flag(ep.HasCabin),
	}
	if ep.Sex == model.SexMale {
		v.Sex = 0
	}
	if ep.Age != nil {
		v.Age = *ep.Age
	}
	if ep.FamilySize < 1 {
		v.FamilySize = 1
	}

	port := DefaultEmbarked
	if ep.Embarked != nil {
		port = *ep.Embarked
	}
	switch port {
	case model.PortCherbourg:
		v.EmbarkedC = 1
	case model.PortQueenstown:
		v.EmbarkedQ = 1
	default:
		v.EmbarkedS = 1
	}

	switch GroupTitle(ep.Title) {
	case TitleMr:
		v.TitleMr = 1
	case TitleMrs:
		v.TitleMrs = 1
	case TitleMiss:
		v.TitleMiss = 1
	case TitleMaster:
		v.TitleMaster = 1
	default:
		v.TitleRare = 1
	}
	return v
}

func flag(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Hypothetical is a user-assembled passenger; any field may be omitted.
type Hypothetical struct {
	Class    *int     `json:"Pclass,omitempty"`
	Sex      *string  `json:"Sex,omitempty"`
	Age      *float64 `json:"Age,omitempty"`
	SibSp    *int     `json:"SibSp,omitempty"`
	Parch    *int     `json:"Parch,omitempty"`
	Fare     *float64 `json:"Fare,omitempty"`
	Cabin    *string  `json:"Cabin,omitempty"`
	Embarked *string  `json:"Embarked,omitempty"`
	Title    *string  `json:"Title,omitempty"`
}

// Engineered builds the engineered passenger for h, filling omitted fields
// with the documented defaults. Age, port and title stay absent so Encode
// applies its own defaults to them.
func (h Hypothetical) Engineered() model.EngineeredPassenger {
	p := model.Passenger{
		Class:  DefaultClass,
		Sex:    model.SexMale,
		Fare:   DefaultFare,
		Ticket: "HYPO",
		Age:    h.Age,
		Cabin:  h.Cabin,
	}
	if h.Class != nil {
		p.Class = *h.Class
	}
	if h.Sex != nil {
		p.Sex = *h.Sex
	}
	if h.SibSp != nil {
		p.SibSp = *h.SibSp
	}
	if h.Parch != nil {
		p.Parch = *h.Parch
	}
	if h.Fare != nil {
		p.Fare = *h.Fare
	}
	if h.Embarked != nil && *h.Embarked != "" {
		p.Embarked = h.Embarked
	}

	title := UnknownTitle
	if h.Title != nil && strings.TrimSpace(*h.Title) != "" {
		title = strings.TrimSpace(*h.Title)
	}
	p.Name = "Hypothetical, " + title + " Passenger"

	ep := Engineer(p)
	ep.Title = title
	return ep
}

// Validate rejects negative counts and amounts. Categorical fields are never
// rejected: Encode treats any sex other than "male" as female and any unknown
// port as the default one.
func (h Hypothetical) Validate() error {
	switch {
	case h.Age != nil && *h.Age < 0:
		return fmt.Errorf("%w: Age %v", ErrInvalidHypothetical, *h.Age)
	case h.SibSp != nil && *h.SibSp < 0:
		return fmt.Errorf("%w: SibSp %d", ErrInvalidHypothetical, *h.SibSp)
	case h.Parch != nil && *h.Parch < 0:
		return fmt.Errorf("%w: Parch %d", ErrInvalidHypothetical, *h.Parch)
	case h.Fare != nil && *h.Fare < 0:
		return fmt.Errorf("%w: Fare %v", ErrInvalidHypothetical, *h.Fare)
	}
	return nil
}
