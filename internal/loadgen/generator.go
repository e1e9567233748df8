package loadgen

import (
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/okian/vocafit/internal/domain/instrument"
)

// Generator produces valid submissions against the default question bank.
// A category is either drawn uniformly from its raw range or, with
// probability dominantShare, from the top fifth of it, so generated
// respondents have the peaked profiles real ones do.
type Generator struct {
	rng    *rand.Rand
	counts [instrument.Count]instrument.ItemCounts
	run    string
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(seed uint64) *Generator {
	g := &Generator{
		rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)), //nolint:gosec // simulated answers, not secrets
		run: uuid.NewString()[:8],
	}
	for _, inst := range instrument.All {
		g.counts[inst] = instrument.DefaultItemCounts(inst)
	}
	return g
}

// Generate returns n submissions with unique ids.
func (g *Generator) Generate(n int) []Submission {
	if n < 0 {
		n = 0
	}
	out := make([]Submission, n)
	ts := time.Now().UTC().Format(time.RFC3339)
	for i := range out {
		out[i] = Submission{
			ID:      "sim_" + g.run + "_" + strconv.Itoa(i),
			RIASEC:  g.answers(instrument.RIASEC),
			Gardner: g.answers(instrument.Gardner),
			GOPC:    g.answers(instrument.GOPC),
			TS:      ts,
		}
	}
	return out
}

// answers returns the raw vector of one instrument, or nil when the
// respondent skipped it. RIASEC is always answered.
func (g *Generator) answers(inst instrument.Instrument) map[string]int {
	if inst != instrument.RIASEC && g.rng.Float64() < skipInstrumentShare {
		return nil
	}
	cats := inst.Categories()
	raw := make(map[string]int, len(cats))
	for _, c := range cats {
		n := g.counts[inst].Items(c)
		lo, hi := n*instrument.LikertMin, n*instrument.LikertMax
		if g.rng.Float64() < dominantShare {
			lo = hi - (hi-lo)/dominantFraction
		}
		raw[string(c)] = lo + g.rng.IntN(hi-lo+1)
	}
	return raw
}
