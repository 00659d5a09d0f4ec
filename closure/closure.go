package closure

import (
	"github.com/albertocavalcante/go-variants/graph"
	"github.com/albertocavalcante/go-variants/matchset"
	"github.com/albertocavalcante/go-variants/variantset"
)

// ID identifies a closure inside its Tree. Resolved entries refer to the
// closure they are attributed to by ID (see matchset.Entry.Source).
type ID int

// NoID is the ID of no closure.
const NoID ID = matchset.NoSource

// Strategy is the merge step a closure runs.
type Strategy int

const (
	// MergeChildren folds the resolved combinations of dependencies.
	MergeChildren Strategy = iota

	// MergeVariants combines sibling variant files and inherits their
	// closures.
	MergeVariants
)

func (s Strategy) String() string {
	switch s {
	case MergeVariants:
		return "merge-variants"
	case MergeChildren:
		return "merge-children"
	default:
		return "unknown"
	}
}

// Closure is the variant closure of one appearance of a module in the tree.
type Closure struct {
	// ID is the closure's position in its Tree.
	ID ID

	// Parent is the closure this one is attached to, or NoID for the root.
	Parent ID

	// Module is the graph node the closure was built for.
	Module *graph.Module

	// Reduced is the module's variant set without the axes fixed by its
	// ancestors, sorted by axis name.
	Reduced variantset.Set

	// Transitive is every assignment active from the root down to this
	// closure: the parent's transitive set plus Reduced.
	Transitive variantset.Set

	// MatchSet holds the single entry Reduced.
	MatchSet *matchset.Trie

	// Invalid is set when the module's variant set conflicts with an
	// ancestor. Invalid closures are never attached to a tree.
	Invalid bool

	// ConflictAxis is the axis that made the closure invalid.
	ConflictAxis string

	// Strategy is the merge step run by Tree.Merge.
	Strategy Strategy

	// Children are the attached closures: variant files first, then
	// dependencies.
	Children []ID

	// Resolved is the covering set of combinations for this closure and
	// everything beneath it, largest first. It is nil until merged.
	Resolved []*matchset.Entry

	// Index holds the entries of Resolved.
	Index *matchset.Trie

	merged bool
}

// newClosure builds the closure of m under parent. The returned closure is
// invalid when m's variant set conflicts with parent's transitive set.
func newClosure(m *graph.Module, parent *Closure) *Closure {
	c := &Closure{ID: NoID, Parent: NoID, Module: m}

	var fixed variantset.Set
	if parent != nil {
		c.Parent = parent.ID
		fixed = parent.Transitive
	}

	reduced, ok := variantset.Reduce(m.VariantSet, fixed)
	if !ok {
		c.Invalid = true
		c.ConflictAxis, _ = variantset.ConflictingAxis(m.VariantSet, fixed)
		return c
	}

	c.Reduced = reduced.Sorted()
	c.Transitive, _ = variantset.Merge(fixed, c.Reduced)
	c.MatchSet = matchset.New()
	c.MatchSet.Insert(c.Reduced, matchset.NoSource)
	c.Index = matchset.New()

	if m.HasVariants() {
		c.Strategy = MergeVariants
	}
	return c
}

// Path returns the path of the closure's module.
func (c *Closure) Path() string {
	if c.Module == nil {
		return ""
	}
	return c.Module.Path
}

// Merged reports whether the closure has been resolved.
func (c *Closure) Merged() bool {
	return c.merged
}

// Combinations returns the resolved combinations as "axis=value" (or bare
// "axis") parts, in resolved order.
func (c *Closure) Combinations() [][]string {
	out := make([][]string, len(c.Resolved))
	for i, e := range c.Resolved {
		out[i] = e.Set.Strings()
	}
	return out
}
