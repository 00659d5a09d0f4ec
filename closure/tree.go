package closure

import (
	"errors"
	"fmt"

	"github.com/albertocavalcante/go-variants/graph"
	"github.com/albertocavalcante/go-variants/variantset"
)

// DefaultMaxDepth bounds the depth of a closure tree when Options.MaxDepth is
// zero.
const DefaultMaxDepth = 512

// DefaultMaxDiagnostics bounds the number of diagnostics kept per tree when
// Options.MaxDiagnostics is zero. Stats keep counting past the bound.
const DefaultMaxDiagnostics = 256

// ErrMaxDepth is returned when a tree grows deeper than the configured bound.
var ErrMaxDepth = errors.New("closure tree exceeds maximum depth")

// CycleError reports a module reached again on its own ancestry path.
type CycleError = graph.CycleError

// Options configure Build.
type Options struct {
	// MaxDepth bounds the number of nested closures. Zero means
	// DefaultMaxDepth; a negative value disables the check.
	MaxDepth int

	// MaxDiagnostics bounds the diagnostics kept. Zero means
	// DefaultMaxDiagnostics; a negative value keeps none.
	MaxDiagnostics int
}

func (o Options) maxDepth() int {
	if o.MaxDepth == 0 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}

func (o Options) maxDiagnostics() int {
	switch {
	case o.MaxDiagnostics == 0:
		return DefaultMaxDiagnostics
	case o.MaxDiagnostics < 0:
		return 0
	default:
		return o.MaxDiagnostics
	}
}

// Tree owns every closure built from one entry module. Closures refer to each
// other by ID only.
type Tree struct {
	closures    []*Closure
	diagnostics []Diagnostic
	stats       Stats
	maxDiag     int
}

// Build creates the closure tree of root. It fails with a *CycleError when a
// module is reached again below itself, and with ErrMaxDepth when the tree
// grows past the configured depth. Conflicts only prune and are reported as
// diagnostics.
func Build(root *graph.Module, opts Options) (*Tree, error) {
	if root == nil {
		return nil, errors.New("closure: nil root module")
	}

	t := &Tree{maxDiag: opts.maxDiagnostics()}
	b := &builder{
		tree:     t,
		maxDepth: opts.maxDepth(),
		onPath:   make(map[*graph.Module]bool),
	}

	c := newClosure(root, nil)
	if c.Invalid {
		// Unreachable for a root: nothing is fixed above it.
		return nil, fmt.Errorf("closure: root module %q is invalid", root.Path)
	}
	t.attach(c, nil)

	if err := b.descend(c, 1); err != nil {
		return nil, err
	}
	return t, nil
}

type builder struct {
	tree     *Tree
	maxDepth int
	onPath   map[*graph.Module]bool
	path     []string
}

func (b *builder) descend(c *Closure, depth int) error {
	m := c.Module
	b.onPath[m] = true
	b.path = append(b.path, m.Path)
	defer func() {
		delete(b.onPath, m)
		b.path = b.path[:len(b.path)-1]
	}()

	for _, list := range [][]*graph.Module{m.Variants, m.Children} {
		for _, next := range list {
			if err := b.visit(c, next, depth); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *builder) visit(parent *Closure, m *graph.Module, depth int) error {
	if m == nil {
		return nil
	}
	if b.onPath[m] {
		cycle := append([]string(nil), b.path...)
		for i, p := range cycle {
			if p == m.Path {
				cycle = cycle[i:]
				break
			}
		}
		return &CycleError{Cycle: append(cycle, m.Path)}
	}
	if b.maxDepth > 0 && depth >= b.maxDepth {
		return fmt.Errorf("%w (%d) at %q", ErrMaxDepth, b.maxDepth, m.Path)
	}

	c := newClosure(m, parent)
	if c.Invalid {
		b.tree.prune(c, parent)
		return nil
	}
	b.tree.attach(c, parent)
	return b.descend(c, depth+1)
}

func (t *Tree) attach(c *Closure, parent *Closure) {
	c.ID = ID(len(t.closures))
	t.closures = append(t.closures, c)
	c.MatchSet.Insert(c.Reduced, int(c.ID))
	if parent != nil {
		parent.Children = append(parent.Children, c.ID)
	}
	t.stats.Closures++
}

func (t *Tree) prune(c *Closure, parent *Closure) {
	t.stats.Pruned++
	value, _ := parent.Transitive.Get(c.ConflictAxis)
	t.report(Diagnostic{
		Kind:   KindPruned,
		Path:   c.Path(),
		Parent: parent.Path(),
		Axis:   c.ConflictAxis,
		Set:    c.Module.VariantSet.Clone(),
		Other:  variantset.Set{{Axis: c.ConflictAxis, Value: value}},
	})
}

func (t *Tree) report(d Diagnostic) {
	if len(t.diagnostics) < t.maxDiag {
		t.diagnostics = append(t.diagnostics, d)
	} else {
		t.stats.DroppedDiagnostics++
	}
}

// Root returns the closure of the entry module.
func (t *Tree) Root() *Closure {
	if len(t.closures) == 0 {
		return nil
	}
	return t.closures[0]
}

// Closure returns the closure with the given ID, or nil.
func (t *Tree) Closure(id ID) *Closure {
	if id < 0 || int(id) >= len(t.closures) {
		return nil
	}
	return t.closures[id]
}

// Len returns the number of closures in the tree.
func (t *Tree) Len() int {
	return len(t.closures)
}

// Diagnostics returns what was pruned or skipped while building and merging.
func (t *Tree) Diagnostics() []Diagnostic {
	return append([]Diagnostic(nil), t.diagnostics...)
}

// Stats returns counters collected while building and merging.
func (t *Tree) Stats() Stats {
	return t.stats
}

// Combinations returns the resolved combinations of the root closure.
func (t *Tree) Combinations() [][]string {
	root := t.Root()
	if root == nil {
		return nil
	}
	return root.Combinations()
}
