package scoring

import "github.com/okian/vocafit/internal/domain/instrument"

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithItemCounts replaces the item-count table of one instrument.
func WithItemCounts(inst instrument.Instrument, counts instrument.ItemCounts) Option {
	return func(e *Engine) {
		if inst.Valid() && counts != nil {
			e.itemCounts[inst] = counts.Clone()
		}
	}
}

// WithEnhancement sets the enhancement threshold and exponent.
func WithEnhancement(theta, gamma float64) Option {
	return func(e *Engine) {
		if theta > 0 && theta < 1 && gamma > 0 {
			e.theta = theta
			e.gamma = gamma
		}
	}
}

// WithRankWeights sets the per-rank weights.
func WithRankWeights(weights []float64) Option {
	return func(e *Engine) {
		if len(weights) > 0 {
			e.rankWeights = append([]float64(nil), weights...)
		}
	}
}

// WithInstrumentWeights sets the share of each instrument. Weights that do
// not sum to 1 are ignored.
func WithInstrumentWeights(w InstrumentWeights) Option {
	return func(e *Engine) {
		if w.Validate() == nil {
			e.instrumentWeights = w
		}
	}
}

// WithDefaultTopN sets the result size used when a request does not name one.
func WithDefaultTopN(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.defaultTopN = n
		}
	}
}
