// Package catalog builds the read-only career archetype catalog from curated
// category→career lists.
//
// A Catalog is immutable once built and is safe for unsynchronized
// concurrent reads.
package catalog

import (
	"bytes"
	"sort"
	"sync"

	"github.com/okian/vocafit/internal/domain/instrument"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Archetype is a career's affinity weights across the instruments' categories.
type Archetype struct {
	Career  string
	Weights instrument.Profile

	sortKey []byte
}

// SortKey returns the pt-BR collation key of the career name.
func (a Archetype) SortKey() []byte { return a.sortKey }

// Dimensions counts the non-zero weights across all instruments.
func (a Archetype) Dimensions() int {
	n := 0
	for _, inst := range instrument.All {
		for _, w := range a.Weights.Of(inst) {
			if w != 0 {
				n++
			}
		}
	}
	return n
}

// Catalog maps career names to archetypes.
type Catalog struct {
	archetypes map[string]Archetype
	names      []string // sorted by collation key
}

// Len returns the number of careers.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.names)
}

// Names returns the career names in collation order.
func (c *Catalog) Names() []string {
	if c == nil {
		return nil
	}
	out := make([]string, len(c.names))
	copy(out, c.names)
	return out
}

// Get returns the archetype for career.
func (c *Catalog) Get(career string) (Archetype, bool) {
	if c == nil {
		return Archetype{}, false
	}
	a, ok := c.archetypes[career]
	return a, ok
}

// Archetypes returns every archetype in collation order. Weight vectors are
// shared with the catalog and must not be modified.
func (c *Catalog) Archetypes() []Archetype {
	if c == nil {
		return nil
	}
	out := make([]Archetype, 0, len(c.names))
	for _, name := range c.names {
		out = append(out, c.archetypes[name])
	}
	return out
}

// PositionWeight returns the weight of the career at 0-based position idx of
// a curated category list.
func PositionWeight(idx int) float64 {
	switch idx {
	case 0:
		return 1.0
	case 1:
		return 0.85
	case 2:
		return 0.7
	}
	w := 1.0 - float64(idx)*0.15
	if w < 0.3 {
		return 0.3
	}
	return w
}

// SortKey returns the pt-BR collation key for name.
func SortKey(name string) []byte {
	var buf collate.Buffer
	col := collate.New(language.BrazilianPortuguese)
	return append([]byte(nil), col.KeyFromString(&buf, name)...)
}

func sortNames(archetypes map[string]Archetype) []string {
	names := make([]string, 0, len(archetypes))
	for name := range archetypes {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return compareKeys(archetypes[names[i]], archetypes[names[j]]) < 0
	})
	return names
}

// CompareCareers orders two archetypes by collation key, breaking exact key
// ties by byte order of the names.
func CompareCareers(a, b Archetype) int {
	return compareKeys(a, b)
}

func compareKeys(a, b Archetype) int {
	if c := bytes.Compare(a.sortKey, b.sortKey); c != 0 {
		return c
	}
	switch {
	case a.Career < b.Career:
		return -1
	case a.Career > b.Career:
		return 1
	}
	return 0
}

var (
	defaultOnce    sync.Once //nolint:gochecknoglobals // process-lifetime catalog
	defaultCatalog *Catalog  //nolint:gochecknoglobals // process-lifetime catalog
)

// Default returns the catalog built from the curated lists. It is built on
// first use and never invalidated. Invalid curated data is a programming
// error and panics.
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Build(Curated())
		if err != nil {
			panic("curated catalog is invalid: " + err.Error())
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
