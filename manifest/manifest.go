package manifest

import (
	"slices"
	"strings"

	"github.com/albertocavalcante/go-variants/variantset"
)

// DefaultFileName is the manifest file name used when none is configured.
const DefaultFileName = "variants.json"

// Combination is one resolved variant combination as ordered "axis=value"
// (or bare "axis") parts.
type Combination []string

// VariantSet parses the combination.
func (c Combination) VariantSet() variantset.Set {
	return variantset.Of(c...)
}

// Key joins the parts with '.', the form used in expanded entry names and
// variant file names.
func (c Combination) Key() string {
	return strings.Join(c, ".")
}

// IsEmpty reports whether the combination assigns no axis.
func (c Combination) IsEmpty() bool {
	return len(c) == 0
}

// Manifest holds the resolved combinations of every entry point.
type Manifest struct {
	Entries map[string][]Combination
}

// New creates an empty manifest.
func New() *Manifest {
	return &Manifest{Entries: make(map[string][]Combination)}
}

// Set records the combinations of an entry, replacing any previous value.
func (m *Manifest) Set(entry string, combinations [][]string) {
	out := make([]Combination, len(combinations))
	for i, c := range combinations {
		out[i] = Combination(slices.Clone(c))
	}
	if m.Entries == nil {
		m.Entries = make(map[string][]Combination)
	}
	m.Entries[entry] = out
}

// Get returns the combinations of an entry.
func (m *Manifest) Get(entry string) ([]Combination, bool) {
	c, ok := m.Entries[entry]
	return c, ok
}

// Names returns the entry names in sorted order.
func (m *Manifest) Names() []string {
	names := make([]string, 0, len(m.Entries))
	for name := range m.Entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.Entries)
}

// Combinations returns the total number of combinations over all entries.
func (m *Manifest) Combinations() int {
	n := 0
	for _, c := range m.Entries {
		n += len(c)
	}
	return n
}
