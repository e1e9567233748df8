package catalog

import (
	"fmt"
	"strings"

	"github.com/okian/vocafit/internal/domain/instrument"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Lists holds, per instrument, the ordered career list of each category.
// Earlier positions carry higher weight.
type Lists map[instrument.Instrument]map[instrument.Category][]string

// Builder accumulates positional weights. It is not safe for concurrent use.
type Builder struct {
	col        *collate.Collator
	buf        collate.Buffer
	archetypes map[string]*Archetype
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{
		col:        collate.New(language.BrazilianPortuguese),
		archetypes: make(map[string]*Archetype),
	}
}

// Add assigns PositionWeight(idx) to every career of the ordered list under
// (inst, cat). Assigning the same (career, instrument, category) twice is
// rejected; on error no assignment from this call is kept.
func (b *Builder) Add(inst instrument.Instrument, cat instrument.Category, careers []string) error {
	if !inst.Valid() {
		return fmt.Errorf("%w: %s", instrument.ErrUnknownInstrument, inst)
	}
	if !inst.Contains(cat) {
		return fmt.Errorf("%w: %s/%s", ErrUnknownCategory, inst, cat)
	}

	seen := make(map[string]struct{}, len(careers))
	for idx, career := range careers {
		if strings.TrimSpace(career) == "" {
			return fmt.Errorf("%w: %s/%s position %d", ErrEmptyCareer, inst, cat, idx)
		}
		if _, dup := seen[career]; dup {
			return fmt.Errorf("%w: %q under %s/%s", ErrDuplicateAssignment, career, inst, cat)
		}
		if a, ok := b.archetypes[career]; ok {
			if _, exists := a.Weights.Of(inst)[cat]; exists {
				return fmt.Errorf("%w: %q under %s/%s", ErrDuplicateAssignment, career, inst, cat)
			}
		}
		seen[career] = struct{}{}
	}

	for idx, career := range careers {
		a := b.archetype(career)
		if a.Weights[inst] == nil {
			a.Weights[inst] = make(instrument.Vector)
		}
		a.Weights[inst][cat] = PositionWeight(idx)
	}
	return nil
}

func (b *Builder) archetype(career string) *Archetype {
	if a, ok := b.archetypes[career]; ok {
		return a
	}
	a := &Archetype{
		Career:  career,
		sortKey: append([]byte(nil), b.col.KeyFromString(&b.buf, career)...),
	}
	b.buf.Reset()
	b.archetypes[career] = a
	return a
}

// Build returns the catalog and resets the builder.
func (b *Builder) Build() *Catalog {
	archetypes := make(map[string]Archetype, len(b.archetypes))
	for name, a := range b.archetypes {
		archetypes[name] = *a
	}
	b.archetypes = make(map[string]*Archetype)
	return &Catalog{
		archetypes: archetypes,
		names:      sortNames(archetypes),
	}
}

// Build constructs a catalog from curated lists. Instruments are visited in
// canonical order and categories in their instrument's canonical order, so
// equal lists always produce equal catalogs.
func Build(lists Lists) (*Catalog, error) {
	b := NewBuilder()
	for _, inst := range instrument.All {
		byCategory := lists[inst]
		cats := make([]instrument.Category, 0, len(byCategory))
		for cat := range byCategory {
			cats = append(cats, cat)
		}
		inst.Order(cats)
		for _, cat := range cats {
			if err := b.Add(inst, cat, byCategory[cat]); err != nil {
				return nil, fmt.Errorf("build catalog: %w", err)
			}
		}
	}
	for inst := range lists {
		if !inst.Valid() {
			return nil, fmt.Errorf("build catalog: %w: %s", instrument.ErrUnknownInstrument, inst)
		}
	}
	return b.Build(), nil
}
