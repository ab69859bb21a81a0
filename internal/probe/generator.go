package probe

import (
	"context"
	"math"
	"math/rand"

	"github.com/google/uuid"

	"github.com/okian/voyage/internal/domain/features"
	"github.com/okian/voyage/internal/domain/model"
	"github.com/okian/voyage/pkg/logger"
)

// Request is one hypothetical passenger tagged with the request id sent
// in the X-Request-ID header.
type Request struct {
	ID        string                `json:"requestId"`
	Passenger features.Hypothetical `json:"passenger"`
}

var probeTitles = []string{"Mr.", "Mrs.", "Miss.", "Master.", "Dr.", "Rev.", "Countess.", "Mr"}

// generateRequests builds n hypothetical passengers from seed. Every field
// is left out some of the time so the server defaults are exercised too.
func generateRequests(ctx context.Context, n int, seed int64) []Request {
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible load, not security
	out := make([]Request, n)
	for i := range out {
		out[i] = Request{ID: uuid.NewString(), Passenger: randomHypothetical(rng)}
	}
	logger.Get().Info(ctx, "generated hypothetical passengers", logger.Int("count", n), logger.Any("seed", seed))
	return out
}

func randomHypothetical(rng *rand.Rand) features.Hypothetical {
	var h features.Hypothetical
	present := func() bool { return rng.Float64() < 0.8 }

	if present() {
		c := model.Classes[rng.Intn(len(model.Classes))]
		h.Class = &c
	}
	if present() {
		sex := model.SexMale
		if rng.Intn(2) == 1 {
			sex = model.SexFemale
		}
		h.Sex = &sex
	}
	if present() {
		h.Age = model.Float(round2(rng.Float64() * maxAge))
	}
	if present() {
		s := rng.Intn(maxRelatives)
		h.SibSp = &s
	}
	if present() {
		p := rng.Intn(maxRelatives)
		h.Parch = &p
	}
	if present() {
		h.Fare = model.Float(round2(rng.Float64() * maxFare))
	}
	if rng.Float64() < 0.3 {
		h.Cabin = model.String("C" + string(rune('0'+rng.Intn(10))))
	}
	if present() {
		h.Embarked = model.String(model.Ports[rng.Intn(len(model.Ports))])
	}
	if present() {
		h.Title = model.String(probeTitles[rng.Intn(len(probeTitles))])
	}
	return h
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
