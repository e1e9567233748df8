package scoring

import (
	"math"
	"sort"

	"github.com/okian/vocafit/internal/domain/catalog"
	"github.com/okian/vocafit/internal/domain/instrument"
)

// Compatibility constants. Empirical, kept verbatim.
const (
	DefaultTopN = 6

	highDimensionThreshold = 0.7
	breadthBonusPerDim     = 0.001
	tieTolerance           = 0.01
)

// Breakdown explains how a compatibility score was reached.
type Breakdown struct {
	// Contributions holds the dot-product share of each instrument.
	Contributions [instrument.Count]float64 `json:"contributions"`
	// Norm is the archetype's L2 norm across all instruments.
	Norm float64 `json:"norm"`
	// HighDimensions counts archetype weights >= 0.7.
	HighDimensions int `json:"high_dimensions"`
	// Dimensions counts non-zero archetype weights.
	Dimensions int `json:"dimensions"`
}

// Match is one ranked career.
type Match struct {
	Career    string    `json:"career"`
	Score     float64   `json:"score"`
	Breakdown Breakdown `json:"breakdown"`
}

// Compatibility scores a person vector against one archetype: a cosine-like
// ratio normalized by the archetype only, divided by sqrt of its
// high-weight dimensions and nudged up by its breadth.
func Compatibility(person PersonVector, a catalog.Archetype) (float64, Breakdown) {
	var (
		b       Breakdown
		rawDot  float64
		squared float64
	)
	for _, inst := range instrument.All {
		pv := person.Of(inst)
		weights := a.Weights.Of(inst)
		for _, c := range inst.Keys(weights) {
			w := weights[c]
			b.Contributions[inst] += pv[c] * w
			squared += w * w
			if w >= highDimensionThreshold {
				b.HighDimensions++
			}
			if w != 0 {
				b.Dimensions++
			}
		}
		rawDot += b.Contributions[inst]
	}
	b.Norm = math.Sqrt(squared)

	var compat float64
	if b.Norm != 0 {
		compat = rawDot / b.Norm
	}
	compat /= math.Sqrt(float64(max(1, b.HighDimensions)))
	compat *= 1 + float64(b.Dimensions)*breadthBonusPerDim
	return compat, b
}

type scored struct {
	match     Match
	archetype catalog.Archetype
}

// TopN scores every archetype and returns the n best. Scores closer than
// 0.01 are ordered by career name instead, so near-ties are reported
// alphabetically. n <= 0 selects DefaultTopN.
func TopN(person PersonVector, cat *catalog.Catalog, n int) []Match {
	if n <= 0 {
		n = DefaultTopN
	}
	archetypes := cat.Archetypes()
	all := make([]scored, 0, len(archetypes))
	for _, a := range archetypes {
		score, b := Compatibility(person, a)
		all = append(all, scored{
			match:     Match{Career: a.Career, Score: score, Breakdown: b},
			archetype: a,
		})
	}
	sortScored(all)

	if n > len(all) {
		n = len(all)
	}
	out := make([]Match, n)
	for i := range out {
		out[i] = all[i].match
	}
	return out
}

// sortScored applies the near-tie rule pairwise inside the comparator. The
// input arrives in catalog collation order and the sort is stable, so the
// output is reproducible.
func sortScored(all []scored) {
	sort.SliceStable(all, func(i, j int) bool {
		a, b := all[i], all[j]
		if math.Abs(a.match.Score-b.match.Score) < tieTolerance {
			return catalog.CompareCareers(a.archetype, b.archetype) < 0
		}
		return a.match.Score > b.match.Score
	})
}
