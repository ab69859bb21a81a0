// Package dataset builds the in-memory passenger collection: the curated seed
// records followed by synthetic records up to a target size.
package dataset

import (
	"fmt"
	"math/rand"

	"github.com/okian/voyage/internal/domain/model"
)

// Sampling constants for synthetic records.
const (
	// DefaultTargetSize is the total number of passengers produced.
	DefaultTargetSize = 100
	// DefaultRandomSeed makes generation reproducible unless a source is injected.
	DefaultRandomSeed = 42
	// SurvivalProbability is the chance a synthetic passenger survived.
	SurvivalProbability = 0.4
	// MaleProbability is the chance a synthetic passenger is male.
	MaleProbability = 0.4
	// UnknownAgeProbability is the chance a synthetic passenger has no recorded age.
	UnknownAgeProbability = 0.1
	// MaxSyntheticAge bounds synthetic ages to whole years in [0, MaxSyntheticAge).
	MaxSyntheticAge = 80
	// MaxRelatives bounds sibling-spouse and parent-child counts to [0, MaxRelatives).
	MaxRelatives = 5
	// MaxSyntheticFare bounds synthetic fares to [0, MaxSyntheticFare).
	MaxSyntheticFare = 100.0
)

// Vocabularies sampled uniformly for synthetic records. A nil entry stands for
// an absent value, so repeating nil weights the draw toward "absent".
var (
	syntheticTitles = []string{"Mr.", "Mrs.", "Miss.", "Master.", "Dr.", "Rev.", "Major.", "Col.", "Capt."}
	syntheticCabins = []*string{nil, model.String("A12"), model.String("B45"), model.String("C85"), model.String("D23"), model.String("E46"), nil, nil, nil, nil}
	syntheticPorts  = []*string{model.String(model.PortCherbourg), model.String(model.PortSouthampton), model.String(model.PortQueenstown), nil}
)

// Option applies a configuration option to the Generator.
type Option func(*Generator)

// WithTargetSize sets the total number of passengers to produce.
func WithTargetSize(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.targetSize = n
		}
	}
}

// WithRand injects the random source used for synthetic records.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithSurvivalProbability overrides SurvivalProbability.
func WithSurvivalProbability(p float64) Option {
	return func(g *Generator) {
		if validProbability(p) {
			g.survivalProbability = p
		}
	}
}

// WithMaleProbability overrides MaleProbability.
func WithMaleProbability(p float64) Option {
	return func(g *Generator) {
		if validProbability(p) {
			g.maleProbability = p
		}
	}
}

// WithUnknownAgeProbability overrides UnknownAgeProbability.
func WithUnknownAgeProbability(p float64) Option {
	return func(g *Generator) {
		if validProbability(p) {
			g.unknownAgeProbability = p
		}
	}
}

func validProbability(p float64) bool { return p >= 0 && p <= 1 }

// Generator produces passenger collections.
type Generator struct {
	targetSize            int
	survivalProbability   float64
	maleProbability       float64
	unknownAgeProbability float64
	rng                   *rand.Rand
}

// New creates a Generator with configuration options.
func New(opts ...Option) *Generator {
	g := &Generator{
		targetSize:            DefaultTargetSize,
		survivalProbability:   SurvivalProbability,
		maleProbability:       MaleProbability,
		unknownAgeProbability: UnknownAgeProbability,
		rng:                   rand.New(rand.NewSource(DefaultRandomSeed)), //nolint:gosec // deterministic seed for reproducible datasets
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate is shorthand for New(opts...).Generate().
func Generate(opts ...Option) []model.Passenger {
	return New(opts...).Generate()
}

// Generate returns the seed records extended with synthetic records until the
// target size is reached. Identifiers continue from the last seed identifier.
func (g *Generator) Generate() []model.Passenger {
	passengers := Seed()
	if g.targetSize <= len(passengers) {
		return passengers
	}

	nextID := passengers[len(passengers)-1].ID + 1
	for len(passengers) < g.targetSize {
		passengers = append(passengers, g.synthesize(nextID))
		nextID++
	}
	return passengers
}

// synthesize draws one synthetic record. Title is drawn independently of sex,
// so a female passenger may carry "Mr.".
func (g *Generator) synthesize(id int) model.Passenger {
	p := model.Passenger{
		ID:       id,
		Survived: model.Died,
		Class:    g.rng.Intn(len(model.Classes)) + 1,
		Sex:      model.SexFemale,
		Ticket:   fmt.Sprintf("TICKET%d", id),
	}
	if g.rng.Float64() < g.survivalProbability {
		p.Survived = model.Survived
	}
	if g.rng.Float64() < g.maleProbability {
		p.Sex = model.SexMale
	}
	if g.rng.Float64() >= g.unknownAgeProbability {
		p.Age = model.Float(float64(g.rng.Intn(MaxSyntheticAge)))
	}

	title := syntheticTitles[g.rng.Intn(len(syntheticTitles))]
	p.Name = fmt.Sprintf("LastName%d, %s FirstName%d", id, title, id)
	p.SibSp = g.rng.Intn(MaxRelatives)
	p.Parch = g.rng.Intn(MaxRelatives)
	p.Fare = g.rng.Float64() * MaxSyntheticFare
	p.Cabin = clone(syntheticCabins[g.rng.Intn(len(syntheticCabins))])
	p.Embarked = clone(syntheticPorts[g.rng.Intn(len(syntheticPorts))])
	return p
}

// clone keeps records from sharing vocabulary pointers.
func clone(s *string) *string {
	if s == nil {
		return nil
	}
	return model.String(*s)
}
