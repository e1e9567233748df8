package scoring

import (
	"fmt"
	"math"

	"github.com/okian/vocafit/internal/domain/instrument"
)

// weightSumTolerance bounds how far instrument weights may drift from 1.
const weightSumTolerance = 0.001

// InstrumentWeights scales each instrument's share of the person vector.
type InstrumentWeights [instrument.Count]float64

// DefaultInstrumentWeights returns riasec 0.4, gardner 0.4, gopc 0.2.
func DefaultInstrumentWeights() InstrumentWeights {
	return InstrumentWeights{
		instrument.RIASEC:  0.4,
		instrument.Gardner: 0.4,
		instrument.GOPC:    0.2,
	}
}

// Sum returns the total weight.
func (w InstrumentWeights) Sum() float64 {
	var s float64
	for _, v := range w {
		s += v
	}
	return s
}

// Validate checks that no weight is negative and that they sum to 1.
func (w InstrumentWeights) Validate() error {
	for _, inst := range instrument.All {
		if w[inst] < 0 {
			return fmt.Errorf("%w: %s weight %.3f is negative", ErrInvalidWeights, inst, w[inst])
		}
	}
	if math.Abs(w.Sum()-1.0) > weightSumTolerance {
		return fmt.Errorf("%w: weights sum to %.3f, want 1.0", ErrInvalidWeights, w.Sum())
	}
	return nil
}

// PersonVector holds the respondent's per-instrument vectors, each already
// L1-normalized and scaled by its instrument weight. Vectors are never merged.
type PersonVector = instrument.Profile

// Combine L1-normalizes each ranked vector and scales it by its instrument
// weight. An all-zero vector stays all-zero.
func Combine(riasec, gardner, gopc instrument.Vector, w InstrumentWeights) PersonVector {
	var person PersonVector
	for inst, v := range [instrument.Count]instrument.Vector{riasec, gardner, gopc} {
		sum := v.AbsSum()
		if sum == 0 {
			sum = 1
		}
		out := make(instrument.Vector, len(v))
		for c, s := range v {
			out[c] = (s / sum) * w[inst]
		}
		person[inst] = out
	}
	return person
}
