package diag

import (
	"fmt"
	"sort"

	"fortio.org/safecast"
)

// Bag holds a collection of diagnostics up to a capacity limit.
type Bag struct {
	items   []Diagnostic
	maximum uint32
}

// NewBag creates a Bag with a capacity limit.
func NewBag(maximum int) *Bag {
	m, err := safecast.Conv[uint32](maximum)
	if err != nil {
		panic(fmt.Errorf("diag: bag maximum overflow: %w", err))
	}
	return &Bag{items: make([]Diagnostic, 0, m), maximum: m}
}

// Add appends a diagnostic, honoring the capacity limit. Returns false if
// the diagnostic was dropped because the bag is full.
func (b *Bag) Add(d Diagnostic) bool {
	if uint32(len(b.items)) >= b.maximum {
		return false
	}
	b.items = append(b.items, d)
	return true
}

// Items returns the diagnostics currently held. Do not mutate the result.
func (b *Bag) Items() []Diagnostic {
	return b.items
}

// Len returns the number of diagnostics in the bag.
func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors reports whether any diagnostic has at least SevError severity.
func (b *Bag) HasErrors() bool {
	for _, d := range b.items {
		if d.Severity >= SevError {
			return true
		}
	}
	return false
}

// Sort orders diagnostics by (crate name, feature, code) for a reproducible
// report, per §5's ordering guarantee.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		a, c := b.items[i], b.items[j]
		if a.CrateName != c.CrateName {
			return a.CrateName < c.CrateName
		}
		if a.Feature != c.Feature {
			return a.Feature < c.Feature
		}
		return a.Code < c.Code
	})
}
