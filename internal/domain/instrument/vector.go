package instrument

import (
	"fmt"
	"math"
	"sort"
)

// Likert answer bounds used by every instrument.
const (
	LikertMin = 1
	LikertMax = 5
)

// ItemCounts maps a category to the number of questions feeding it.
type ItemCounts map[Category]int

// Items returns the item count for c, falling back to 1 when c is unknown
// or carries a non-positive count.
func (ic ItemCounts) Items(c Category) int {
	if n, ok := ic[c]; ok && n > 0 {
		return n
	}
	return 1
}

// Max returns the largest item count in the table, or 1 for an empty table.
func (ic ItemCounts) Max() int {
	maxItems := 0
	for _, n := range ic {
		if n > maxItems {
			maxItems = n
		}
	}
	if maxItems < 1 {
		return 1
	}
	return maxItems
}

// Clone returns an independent copy.
func (ic ItemCounts) Clone() ItemCounts {
	out := make(ItemCounts, len(ic))
	for c, n := range ic {
		out[c] = n
	}
	return out
}

// RawScores maps a category to the sum of its Likert answers.
type RawScores map[Category]int

// Vector maps a category to a real-valued score or weight.
type Vector map[Category]float64

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	for c, s := range v {
		out[c] = s
	}
	return out
}

// AbsSum returns Σ|v|, summed in category order so the result is
// reproducible bit for bit.
func (v Vector) AbsSum() float64 {
	cats := make([]Category, 0, len(v))
	for c := range v {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	var sum float64
	for _, c := range cats {
		sum += math.Abs(v[c])
	}
	return sum
}

// Keys returns the categories of v in i's canonical order.
func (i Instrument) Keys(v Vector) []Category {
	cats := make([]Category, 0, len(v))
	for c := range v {
		cats = append(cats, c)
	}
	i.Order(cats)
	return cats
}

// Profile holds one vector per instrument, indexed by Instrument.
type Profile [Count]Vector

// Of returns the vector for i; it is nil when the instrument has no entries.
func (p Profile) Of(i Instrument) Vector {
	if !i.Valid() {
		return nil
	}
	return p[i]
}

// DefaultItemCounts returns the item-count table of the shipped question bank.
func DefaultItemCounts(i Instrument) ItemCounts {
	switch i {
	case RIASEC:
		return ItemCounts{
			Realistic:     5,
			Investigative: 5,
			Artistic:      4,
			Social:        4,
			Enterprising:  3,
			Conventional:  5,
		}
	case Gardner:
		ic := make(ItemCounts, len(categories[Gardner]))
		for _, c := range categories[Gardner] {
			ic[c] = 4
		}
		return ic
	case GOPC:
		return ItemCounts{SelfKnowledge: 5, Planning: 5, DecisionMaking: 5}
	default:
		return ItemCounts{}
	}
}

// ValidateItemCounts checks that every category of i has a positive count
// and that the table names no foreign categories.
func ValidateItemCounts(i Instrument, ic ItemCounts) error {
	if !i.Valid() {
		return fmt.Errorf("%w: %s", ErrUnknownInstrument, i)
	}
	for _, c := range categories[i] {
		if ic[c] < 1 {
			return fmt.Errorf("%w: %s/%s", ErrMissingItemCount, i, c)
		}
	}
	for c := range ic {
		if !i.Contains(c) {
			return fmt.Errorf("%w: %s/%s", ErrUnknownCategory, i, c)
		}
	}
	return nil
}

// ValidateRawScores checks that raw only names categories of i and that each
// score lies within [nItems*LikertMin, nItems*LikertMax].
func ValidateRawScores(i Instrument, raw RawScores, ic ItemCounts) error {
	for c, score := range raw {
		if !i.Contains(c) {
			return fmt.Errorf("%w: %s/%s", ErrUnknownCategory, i, c)
		}
		n := ic.Items(c)
		if score < n*LikertMin || score > n*LikertMax {
			return fmt.Errorf("%w: %s/%s=%d not in [%d,%d]", ErrScoreOutOfRange, i, c, score, n*LikertMin, n*LikertMax)
		}
	}
	return nil
}
