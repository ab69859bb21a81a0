// Package stats aggregates descriptive statistics over passenger collections.
// Every function is a pure read over its input and returns nil for an empty
// collection instead of dividing by zero.
package stats

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/voyage/internal/domain/model"
)

// percent converts a ratio to a percentage.
const percent = 100

// UnknownPort keys passengers without an embarkation port.
const UnknownPort = "unknown"

// AgeStats summarises the recorded ages. With no recorded age, Known is 0 and
// the other figures are zero.
type AgeStats struct {
	Average float64 `json:"average"`
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Known   int     `json:"known"`
	Missing int     `json:"missing"`
}

// BasicStats is the headline summary of a collection.
type BasicStats struct {
	TotalPassengers int            `json:"totalPassengers"`
	SurvivedCount   int            `json:"survivedCount"`
	SurvivalRate    float64        `json:"survivalRate"`
	Age             AgeStats       `json:"ageStats"`
	ClassCounts     map[int]int    `json:"classCounts"`
	SexCounts       map[string]int `json:"genderCounts"`
	EmbarkedCounts  map[string]int `json:"embarkedCounts"`
}

// MissingValues counts absent optional fields.
type MissingValues struct {
	Age      int `json:"Age"`
	Cabin    int `json:"Cabin"`
	Embarked int `json:"Embarked"`
}

// Group holds the member and survivor counts of one category value.
type Group struct {
	Total    int `json:"total"`
	Survived int `json:"survived"`
}

// Rate returns the survival percentage of g, or 0 for an empty group.
func (g Group) Rate() float64 {
	if g.Total == 0 {
		return 0
	}
	return percent * float64(g.Survived) / float64(g.Total)
}

// CategorySurvival breaks survival down by class, sex and port.
type CategorySurvival struct {
	ByClass    map[int]*Group    `json:"byClass"`
	BySex      map[string]*Group `json:"byGender"`
	ByEmbarked map[string]*Group `json:"byEmbarked"`
}

// Basic computes the headline summary of ps.
func Basic(ps []model.Passenger) *BasicStats {
	if len(ps) == 0 {
		return nil
	}

	b := &BasicStats{
		TotalPassengers: len(ps),
		ClassCounts:     classKeys(func() int { return 0 }),
		SexCounts:       map[string]int{model.SexMale: 0, model.SexFemale: 0},
		EmbarkedCounts:  portKeys(func() int { return 0 }),
	}
	b.EmbarkedCounts[UnknownPort] = 0

	ages := make([]float64, 0, len(ps))
	for _, p := range ps {
		if p.Survived == model.Survived {
			b.SurvivedCount++
		}
		if p.Age != nil {
			ages = append(ages, *p.Age)
		}
		b.ClassCounts[p.Class]++
		b.SexCounts[p.Sex]++
		b.EmbarkedCounts[portKey(p.Embarked)]++
	}

	b.SurvivalRate = percent * float64(b.SurvivedCount) / float64(len(ps))
	b.Age = ageStats(ages, len(ps))
	return b
}

func ageStats(ages []float64, total int) AgeStats {
	a := AgeStats{Known: len(ages), Missing: total - len(ages)}
	if len(ages) == 0 {
		return a
	}
	a.Average = stat.Mean(ages, nil)
	a.Min = floats.Min(ages)
	a.Max = floats.Max(ages)
	return a
}

// Missing counts the absent age, cabin and port values in ps.
func Missing(ps []model.Passenger) *MissingValues {
	if len(ps) == 0 {
		return nil
	}
	m := &MissingValues{}
	for _, p := range ps {
		if p.Age == nil {
			m.Age++
		}
		if p.Cabin == nil {
			m.Cabin++
		}
		if p.Embarked == nil {
			m.Embarked++
		}
	}
	return m
}

// SurvivalByCategory groups ps by class, sex and port. Every class, both sexes
// and every known port appear even with no members; passengers without a port
// are left out of ByEmbarked.
func SurvivalByCategory(ps []model.Passenger) *CategorySurvival {
	if len(ps) == 0 {
		return nil
	}
	c := &CategorySurvival{
		ByClass:    classKeys(func() *Group { return &Group{} }),
		BySex:      map[string]*Group{model.SexMale: {}, model.SexFemale: {}},
		ByEmbarked: portKeys(func() *Group { return &Group{} }),
	}
	for _, p := range ps {
		survived := 0
		if p.Survived == model.Survived {
			survived = 1
		}
		add(c.ByClass, p.Class, survived)
		add(c.BySex, p.Sex, survived)
		if p.Embarked != nil {
			add(c.ByEmbarked, *p.Embarked, survived)
		}
	}
	return c
}

func add[K comparable](groups map[K]*Group, key K, survived int) {
	g, ok := groups[key]
	if !ok {
		g = &Group{}
		groups[key] = g
	}
	g.Total++
	g.Survived += survived
}

func classKeys[V any](zero func() V) map[int]V {
	m := make(map[int]V, len(model.Classes))
	for _, c := range model.Classes {
		m[c] = zero()
	}
	return m
}

func portKeys[V any](zero func() V) map[string]V {
	m := make(map[string]V, len(model.Ports)+1)
	for _, p := range model.Ports {
		m[p] = zero()
	}
	return m
}

func portKey(port *string) string {
	if port == nil {
		return UnknownPort
	}
	return *port
}
