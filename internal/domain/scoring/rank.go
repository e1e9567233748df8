package scoring

import (
	"sort"

	"github.com/okian/vocafit/internal/domain/instrument"
)

// DefaultRankWeights returns the weights applied by rank position.
func DefaultRankWeights() []float64 {
	return []float64{1.0, 0.75, 0.5, 0.25}
}

// ApplyRankWeights multiplies each category of one instrument by the weight
// of its rank. Ranks come from a stable descending sort over the
// instrument's canonical category order, so ties are deterministic. Ranks
// past the end of weights reuse the last weight.
func ApplyRankWeights(inst instrument.Instrument, v instrument.Vector, weights []float64) instrument.Vector {
	if len(weights) == 0 {
		weights = DefaultRankWeights()
	}

	cats := make([]instrument.Category, 0, len(v))
	for c := range v {
		cats = append(cats, c)
	}
	inst.Order(cats)
	sort.SliceStable(cats, func(i, j int) bool {
		return v[cats[i]] > v[cats[j]]
	})

	last := len(weights) - 1
	out := make(instrument.Vector, len(v))
	for rank, c := range cats {
		out[c] = v[c] * weights[min(rank, last)]
	}
	return out
}
