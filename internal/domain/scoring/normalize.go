// Package scoring implements the career-compatibility pipeline: reliability
// weighted normalization, threshold enhancement, rank weighting, person
// vector combination and archetype compatibility.
//
// Every function here is pure. Inputs are never mutated and each stage
// returns a freshly allocated vector.
package scoring

import (
	"math"

	"github.com/okian/vocafit/internal/domain/instrument"
)

// Normalize converts raw Likert sums on the 1–5 scale into
// reliability-weighted scores.
func Normalize(raw instrument.RawScores, counts instrument.ItemCounts) instrument.Vector {
	return NormalizeScale(raw, counts, instrument.LikertMin, instrument.LikertMax)
}

// NormalizeScale normalizes raw sums answered on a [minAnswer, maxAnswer]
// scale. Each category becomes p*sqrt(nItems), where p is the fraction of
// the attainable range reached. Categories missing from counts use one item.
func NormalizeScale(raw instrument.RawScores, counts instrument.ItemCounts, minAnswer, maxAnswer int) instrument.Vector {
	span := maxAnswer - minAnswer
	if span <= 0 {
		span = 1
	}
	out := make(instrument.Vector, len(raw))
	for c, score := range raw {
		n := counts.Items(c)
		p := float64(score-n*minAnswer) / float64(n*span)
		out[c] = p * math.Sqrt(float64(n))
	}
	return out
}
