// Package features derives engineered attributes from raw passengers and
// encodes them into model feature vectors.
package features

import (
	"strings"

	"github.com/okian/voyage/internal/domain/model"
)

// UnknownTitle is assigned when a name carries no "Surname, Title." pattern.
const UnknownTitle = "Unknown"

// Age bins, in display order.
const (
	AgeChild      = "Child"
	AgeTeenager   = "Teenager"
	AgeYoungAdult = "Young Adult"
	AgeAdult      = "Adult"
	AgeElderly    = "Elderly"
	AgeUnknown    = "Unknown"
)

// Fare bins, in display order.
const (
	FareLow      = "Low"
	FareMedium   = "Medium"
	FareHigh     = "High"
	FareVeryHigh = "Very High"
)

// AgeBins and FareBins list the categorical bins in display order.
var (
	AgeBins  = []string{AgeChild, AgeTeenager, AgeYoungAdult, AgeAdult, AgeElderly, AgeUnknown}
	FareBins = []string{FareLow, FareMedium, FareHigh, FareVeryHigh}
)

// Upper bounds (exclusive) of the age and fare bins.
const (
	childAgeLimit      = 12
	teenagerAgeLimit   = 18
	youngAdultAgeLimit = 35
	adultAgeLimit      = 60

	lowFareLimit    = 10
	mediumFareLimit = 30
	highFareLimit   = 100
)

// ExtractTitle returns the text between the first ", " and the next "." in
// name, e.g. "Mr" for "Braund, Mr. Owen Harris".
func ExtractTitle(name string) string {
	_, rest, ok := strings.Cut(name, ", ")
	if !ok {
		return UnknownTitle
	}
	title, _, ok := strings.Cut(rest, ".")
	if !ok || title == "" {
		return UnknownTitle
	}
	return title
}

// AgeBin places a raw (non-imputed) age into its bin.
func AgeBin(age *float64) string {
	switch {
	case age == nil:
		return AgeUnknown
	case *age < childAgeLimit:
		return AgeChild
	case *age < teenagerAgeLimit:
		return AgeTeenager
	case *age < youngAdultAgeLimit:
		return AgeYoungAdult
	case *age < adultAgeLimit:
		return AgeAdult
	default:
		return AgeElderly
	}
}

// FareBin places a fare into its bin. Fares are always recorded, so there is
// no unknown bin.
func FareBin(fare float64) string {
	switch {
	case fare < lowFareLimit:
		return FareLow
	case fare < mediumFareLimit:
		return FareMedium
	case fare < highFareLimit:
		return FareHigh
	default:
		return FareVeryHigh
	}
}

// Engineer derives the engineered attributes of p.
func Engineer(p model.Passenger) model.EngineeredPassenger {
	familySize := p.SibSp + p.Parch + 1
	return model.EngineeredPassenger{
		Passenger:  p,
		Title:      ExtractTitle(p.Name),
		FamilySize: familySize,
		IsAlone:    familySize == 1,
		HasCabin:   p.Cabin != nil,
		AgeBin:     AgeBin(p.Age),
		FareBin:    FareBin(p.Fare),
	}
}

// EngineerAll maps Engineer over ps, preserving order.
func EngineerAll(ps []model.Passenger) []model.EngineeredPassenger {
	out := make([]model.EngineeredPassenger, len(ps))
	for i, p := range ps {
		out[i] = Engineer(p)
	}
	return out
}
