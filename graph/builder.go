package graph

import (
	"fmt"

	"github.com/albertocavalcante/go-variants/variantset"
)

// ReferenceKind names the kind of edge a ReferenceError is about.
type ReferenceKind string

const (
	// RefEntry is an entry point naming its root module.
	RefEntry ReferenceKind = "entry"

	// RefDependency is a module depending on another module.
	RefDependency ReferenceKind = "dependency"

	// RefVariant is a module listing one of its variant files.
	RefVariant ReferenceKind = "variant"
)

// ReferenceError reports an edge whose target is not part of the graph.
type ReferenceError struct {
	// From is the entry name or module path holding the reference.
	From string
	// To is the missing module path.
	To string
	// Kind is the kind of edge.
	Kind ReferenceKind
}

func (e *ReferenceError) Error() string {
	if e.Kind == RefEntry {
		return fmt.Sprintf("entry %q: module %q not in graph", e.From, e.To)
	}
	return fmt.Sprintf("module %q: %s %q not in graph", e.From, e.Kind, e.To)
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		Entries: make(map[string]*Module),
		Modules: make(map[string]*Module),
	}
}

// Add returns the module registered for path, creating it with the given
// variant set if needed. The variant set of an existing module is only set
// when it had none.
func (g *Graph) Add(path string, set variantset.Set) *Module {
	if m, ok := g.Modules[path]; ok {
		if len(m.VariantSet) == 0 && len(set) > 0 {
			m.VariantSet = set.Clone()
		}
		return m
	}
	m := &Module{Path: path, VariantSet: set.Clone()}
	g.Modules[path] = m
	return m
}

// Get returns the module for path, or nil if not found.
func (g *Graph) Get(path string) *Module {
	return g.Modules[path]
}

// Link records that from depends on to. Both modules must already exist.
func (g *Graph) Link(from, to string) error {
	parent, child, err := g.pair(from, to, RefDependency)
	if err != nil {
		return err
	}
	parent.AddChild(child)
	return nil
}

// AttachVariant records variant as a variant file of module. Both modules
// must already exist.
func (g *Graph) AttachVariant(module, variant string) error {
	m, v, err := g.pair(module, variant, RefVariant)
	if err != nil {
		return err
	}
	m.AddVariant(v)
	return nil
}

// SetEntry names path as the root module of entry.
func (g *Graph) SetEntry(name, path string) error {
	m := g.Modules[path]
	if m == nil {
		return &ReferenceError{From: name, To: path, Kind: RefEntry}
	}
	g.Entries[name] = m
	return nil
}

// Entry returns the root module of the named entry.
func (g *Graph) Entry(name string) (*Module, bool) {
	m, ok := g.Entries[name]
	return m, ok && m != nil
}

func (g *Graph) pair(from, to string, kind ReferenceKind) (*Module, *Module, error) {
	a := g.Modules[from]
	if a == nil {
		return nil, nil, fmt.Errorf("module %q not in graph", from)
	}
	b := g.Modules[to]
	if b == nil {
		return nil, nil, &ReferenceError{From: from, To: to, Kind: kind}
	}
	return a, b, nil
}

// Normalize sorts the variants of every module by variant set size, largest
// first, keeping the relative order of equally sized variants.
func (g *Graph) Normalize() {
	for _, m := range g.Modules {
		m.SortVariants()
	}
}
