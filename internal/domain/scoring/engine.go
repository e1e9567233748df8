package scoring

import (
	"context"
	"fmt"

	"github.com/okian/vocafit/internal/domain/catalog"
	"github.com/okian/vocafit/internal/domain/instrument"
)

// Input carries one respondent's raw scores.
type Input struct {
	SubmissionID string
	Raw          [instrument.Count]instrument.RawScores
	// N is the number of careers wanted; <= 0 selects the engine default.
	N int
}

// Result is the ranked outcome for one submission.
type Result struct {
	SubmissionID string
	Person       PersonVector
	Matches      []Match
}

// Scorer ranks careers for a submission.
type Scorer interface {
	// Score runs the pipeline, honoring ctx only before it starts.
	Score(ctx context.Context, in Input) (Result, error)
}

// Engine runs the full pipeline against a fixed catalog. It holds no
// mutable state after construction and is safe for concurrent use.
type Engine struct {
	catalog           *catalog.Catalog
	itemCounts        [instrument.Count]instrument.ItemCounts
	theta             float64
	gamma             float64
	rankWeights       []float64
	instrumentWeights InstrumentWeights
	defaultTopN       int
}

// NewEngine creates an engine over cat. Every instrument category must have
// a positive item count.
func NewEngine(cat *catalog.Catalog, opts ...Option) (*Engine, error) {
	if cat == nil {
		return nil, ErrNilCatalog
	}
	e := &Engine{
		catalog:           cat,
		theta:             DefaultTheta,
		gamma:             DefaultGamma,
		rankWeights:       DefaultRankWeights(),
		instrumentWeights: DefaultInstrumentWeights(),
		defaultTopN:       DefaultTopN,
	}
	for _, inst := range instrument.All {
		e.itemCounts[inst] = instrument.DefaultItemCounts(inst)
	}

	// Apply all options
	for _, opt := range opts {
		opt(e)
	}

	for _, inst := range instrument.All {
		if err := instrument.ValidateItemCounts(inst, e.itemCounts[inst]); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidItemCounts, err)
		}
	}
	return e, nil
}

// Catalog returns the catalog the engine scores against.
func (e *Engine) Catalog() *catalog.Catalog { return e.catalog }

// ItemCounts returns a copy of the item-count table for inst.
func (e *Engine) ItemCounts(inst instrument.Instrument) instrument.ItemCounts {
	if !inst.Valid() {
		return nil
	}
	return e.itemCounts[inst].Clone()
}

// DefaultTopN returns the result size used when none is requested.
func (e *Engine) DefaultTopN() int { return e.defaultTopN }

// Ranked runs normalize, enhance and rank weighting for one instrument.
func (e *Engine) Ranked(inst instrument.Instrument, raw instrument.RawScores) instrument.Vector {
	counts := e.itemCounts[inst]
	normalized := Normalize(raw, counts)
	enhanced := Enhance(normalized, counts, e.theta, e.gamma)
	return ApplyRankWeights(inst, enhanced, e.rankWeights)
}

// Profile builds the person vector from the three raw score vectors.
func (e *Engine) Profile(raw [instrument.Count]instrument.RawScores) PersonVector {
	var ranked [instrument.Count]instrument.Vector
	for _, inst := range instrument.All {
		ranked[inst] = e.Ranked(inst, raw[inst])
	}
	return Combine(ranked[instrument.RIASEC], ranked[instrument.Gardner], ranked[instrument.GOPC], e.instrumentWeights)
}

// TopN returns the n most compatible careers for raw.
func (e *Engine) TopN(raw [instrument.Count]instrument.RawScores, n int) []Match {
	if n <= 0 {
		n = e.defaultTopN
	}
	return TopN(e.Profile(raw), e.catalog, n)
}

// Score implements Scorer.
func (e *Engine) Score(ctx context.Context, in Input) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("context cancelled: %w", err)
	}
	n := in.N
	if n <= 0 {
		n = e.defaultTopN
	}
	person := e.Profile(in.Raw)
	return Result{
		SubmissionID: in.SubmissionID,
		Person:       person,
		Matches:      TopN(person, e.catalog, n),
	}, nil
}
