package stats

import (
	"sort"
	"strconv"

	"github.com/okian/voyage/internal/domain/features"
	"github.com/okian/voyage/internal/domain/model"
)

// Count is one bar of a distribution.
type Count struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// Distributions are the engineered-feature histograms shown next to the
// feature engineering walkthrough.
type Distributions struct {
	Titles      []Count `json:"titles"`
	FamilySizes []Count `json:"familySizes"`
	AgeBins     []Count `json:"ageBins"`
	FareBins    []Count `json:"fareBins"`
}

// FeatureDistributions counts titles (most frequent first, ties by name),
// family sizes (ascending) and the age and fare bins (in bin order, empty bins
// included).
func FeatureDistributions(eps []model.EngineeredPassenger) *Distributions {
	if len(eps) == 0 {
		return nil
	}

	titles := map[string]int{}
	sizes := map[int]int{}
	ageBins := map[string]int{}
	fareBins := map[string]int{}
	for _, ep := range eps {
		titles[ep.Title]++
		sizes[ep.FamilySize]++
		ageBins[ep.AgeBin]++
		fareBins[ep.FareBin]++
	}

	d := &Distributions{
		AgeBins:  ordered(features.AgeBins, ageBins),
		FareBins: ordered(features.FareBins, fareBins),
	}

	for name, n := range titles {
		d.Titles = append(d.Titles, Count{Name: name, Value: n})
	}
	sort.Slice(d.Titles, func(i, j int) bool {
		if d.Titles[i].Value != d.Titles[j].Value {
			return d.Titles[i].Value > d.Titles[j].Value
		}
		return d.Titles[i].Name < d.Titles[j].Name
	})

	keys := make([]int, 0, len(sizes))
	for size := range sizes {
		keys = append(keys, size)
	}
	sort.Ints(keys)
	for _, size := range keys {
		d.FamilySizes = append(d.FamilySizes, Count{Name: strconv.Itoa(size), Value: sizes[size]})
	}
	return d
}

func ordered(order []string, counts map[string]int) []Count {
	out := make([]Count, len(order))
	for i, name := range order {
		out[i] = Count{Name: name, Value: counts[name]}
	}
	return out
}
