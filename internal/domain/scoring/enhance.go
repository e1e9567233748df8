package scoring

import (
	"math"

	"github.com/okian/vocafit/internal/domain/instrument"
)

// Enhancement defaults. These were tuned empirically and are kept verbatim.
const (
	DefaultTheta = 0.5
	DefaultGamma = 1.3

	lowAffinityDamping = 0.3
)

// Enhance gates normalized scores against theta. The reference maximum is
// sqrt of the largest item count of the whole instrument. At or below theta a
// score is damped by 0.3; above it the excess is stretched by a power curve
// back onto [0, maxPossible].
func Enhance(v instrument.Vector, counts instrument.ItemCounts, theta, gamma float64) instrument.Vector {
	maxPossible := math.Sqrt(float64(counts.Max()))
	out := make(instrument.Vector, len(v))
	for c, s := range v {
		p := math.Min(1, s/maxPossible)
		if p <= theta {
			out[c] = s * lowAffinityDamping
			continue
		}
		out[c] = math.Pow((p-theta)/(1-theta), gamma) * maxPossible
	}
	return out
}
