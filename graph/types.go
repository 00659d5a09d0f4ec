package graph

import (
	"slices"

	"github.com/albertocavalcante/go-variants/variantset"
)

// Module is a node in the dependency graph.
//
// A module that is itself a variant file carries a non-empty VariantSet. A
// logical module with variant files on disk lists them in Variants; the list
// must be ordered by variant set size, largest first (see Graph.Normalize).
// Children are graph dependencies and may be shared between parents.
type Module struct {
	// Path identifies the module, usually a file path relative to the
	// project root.
	Path string

	// VariantSet is the module's own assignment. It is empty for modules that
	// are not variant files.
	VariantSet variantset.Set

	// Variants are the sibling variant files of this module.
	Variants []*Module

	// Children are the direct dependencies of this module.
	Children []*Module
}

// IsVariant reports whether the module is a variant file.
func (m *Module) IsVariant() bool {
	return len(m.VariantSet) > 0
}

// HasVariants reports whether variant files are attached to the module.
func (m *Module) HasVariants() bool {
	return len(m.Variants) > 0
}

// AddVariant attaches v to the module's variant list unless it is already
// present.
func (m *Module) AddVariant(v *Module) bool {
	if slices.Contains(m.Variants, v) {
		return false
	}
	m.Variants = append(m.Variants, v)
	return true
}

// AddChild adds a dependency unless it is already present.
func (m *Module) AddChild(c *Module) bool {
	if slices.Contains(m.Children, c) {
		return false
	}
	m.Children = append(m.Children, c)
	return true
}

// SortVariants orders the variant list by variant set size, largest first.
// Variants of equal size keep their relative order.
func (m *Module) SortVariants() {
	slices.SortStableFunc(m.Variants, func(a, b *Module) int {
		return len(b.VariantSet) - len(a.VariantSet)
	})
}

// Graph is the input model of a resolution: named entry points and every
// module reachable from them, keyed by path.
type Graph struct {
	// Entries maps an entry name to its root module.
	Entries map[string]*Module

	// Modules contains all modules of the graph, keyed by path.
	Modules map[string]*Module
}

// Stats provides statistics about the graph.
type Stats struct {
	// Entries is the number of entry points.
	Entries int

	// Modules is the total number of modules, variant files included.
	Modules int

	// VariantFiles is the number of modules that are variant files.
	VariantFiles int

	// VariantModules is the number of modules with at least one variant file.
	VariantModules int

	// Dependencies is the number of dependency edges.
	Dependencies int

	// Axes lists the distinct axis names used by variant files, sorted.
	Axes []string

	// MaxDepth is the length of the longest dependency chain from an entry,
	// counting variant edges.
	MaxDepth int
}
