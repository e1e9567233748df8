// Package instrument describes the three psychometric instruments scored by
// the engine: their closed category sets, item counts and score vectors.
package instrument

import (
	"fmt"
	"sort"
	"strings"
)

// Instrument identifies one of the psychometric questionnaires.
type Instrument int

// Supported instruments. The order is the canonical iteration order.
const (
	RIASEC Instrument = iota
	Gardner
	GOPC

	// Count is the number of supported instruments.
	Count = 3
)

// All lists every instrument in canonical order.
var All = [Count]Instrument{RIASEC, Gardner, GOPC} //nolint:gochecknoglobals // fixed enumeration

// Category identifies a scored dimension inside one instrument. Identifiers
// are only unique within their instrument.
type Category string

// RIASEC categories (Holland).
const (
	Realistic     Category = "R"
	Investigative Category = "I"
	Artistic      Category = "A"
	Social        Category = "S"
	Enterprising  Category = "E"
	Conventional  Category = "C"
)

// Gardner multiple intelligences.
const (
	Linguistic    Category = "Linguística"
	Logical       Category = "Lógico-Matemática"
	Spatial       Category = "Espacial"
	Kinesthetic   Category = "Corporal-Cinestésica"
	Musical       Category = "Musical"
	Interpersonal Category = "Interpessoal"
	Intrapersonal Category = "Intrapessoal"
	Naturalist    Category = "Naturalista"
	Existential   Category = "Existencial"
)

// GOPC career-guidance competencies.
const (
	SelfKnowledge  Category = "AK"
	Planning       Category = "PC"
	DecisionMaking Category = "TD"
)

//nolint:gochecknoglobals // static metadata, never mutated
var categories = [Count][]Category{
	RIASEC:  {Realistic, Investigative, Artistic, Social, Enterprising, Conventional},
	Gardner: {Linguistic, Logical, Spatial, Kinesthetic, Musical, Interpersonal, Intrapersonal, Naturalist, Existential},
	GOPC:    {SelfKnowledge, Planning, DecisionMaking},
}

//nolint:gochecknoglobals // static metadata, never mutated
var names = [Count]string{
	RIASEC:  "riasec",
	Gardner: "gardner",
	GOPC:    "gopc",
}

// Valid reports whether i is one of the supported instruments.
func (i Instrument) Valid() bool {
	return i >= 0 && int(i) < Count
}

// String returns the lower-case instrument name used in config and JSON.
func (i Instrument) String() string {
	if !i.Valid() {
		return fmt.Sprintf("instrument(%d)", int(i))
	}
	return names[i]
}

// Parse resolves an instrument by name, case-insensitively.
func Parse(s string) (Instrument, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	for _, inst := range All {
		if names[inst] == key {
			return inst, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInstrument, s)
}

// Categories returns a copy of the instrument's categories in canonical order.
func (i Instrument) Categories() []Category {
	if !i.Valid() {
		return nil
	}
	out := make([]Category, len(categories[i]))
	copy(out, categories[i])
	return out
}

// Contains reports whether c belongs to the instrument.
func (i Instrument) Contains(c Category) bool {
	return i.index(c) >= 0
}

func (i Instrument) index(c Category) int {
	if !i.Valid() {
		return -1
	}
	for idx, known := range categories[i] {
		if known == c {
			return idx
		}
	}
	return -1
}

// Order sorts cs in place into the instrument's canonical order. Categories
// the instrument does not know are placed last, alphabetically.
func (i Instrument) Order(cs []Category) {
	sort.SliceStable(cs, func(a, b int) bool {
		ia, ib := i.index(cs[a]), i.index(cs[b])
		switch {
		case ia >= 0 && ib >= 0:
			return ia < ib
		case ia >= 0:
			return true
		case ib >= 0:
			return false
		default:
			return cs[a] < cs[b]
		}
	})
}
