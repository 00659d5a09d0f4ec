package closure

import (
	"slices"

	"github.com/albertocavalcante/go-variants/graph"
	"github.com/albertocavalcante/go-variants/matchset"
	"github.com/albertocavalcante/go-variants/priority"
	"github.com/albertocavalcante/go-variants/variantset"
)

// Resolve builds the closure tree of root and merges it with table.
func Resolve(root *graph.Module, table *priority.Table, opts Options) (*Tree, error) {
	t, err := Build(root, opts)
	if err != nil {
		return nil, err
	}
	t.Merge(table)
	return t, nil
}

// Merge resolves every closure of the tree bottom-up using table to attribute
// combined entries. Merging an already merged tree does nothing.
func (t *Tree) Merge(table *priority.Table) {
	root := t.Root()
	if root == nil || root.merged {
		return
	}
	t.merge(root, table)
	t.stats.Resolved = len(root.Resolved)
}

func (t *Tree) merge(c *Closure, table *priority.Table) {
	if c.merged {
		return
	}
	for _, id := range c.Children {
		t.merge(t.closures[id], table)
	}

	c.Index = matchset.New()
	c.Resolved = nil

	switch c.Strategy {
	case MergeVariants:
		t.mergeVariants(c, table)
	default:
		t.mergeChildren(c)
	}

	sortBySize(c.Resolved)
	c.merged = true
}

func (t *Tree) children(c *Closure) []*Closure {
	out := make([]*Closure, len(c.Children))
	for i, id := range c.Children {
		out[i] = t.closures[id]
	}
	return out
}

// mergeVariants combines the variant files (and any dependencies) attached to
// c. Every combination of two compatible entries is attributed to the side
// the table prefers, then each attributed entry inherits the resolved
// combinations of its source closure.
func (t *Tree) mergeVariants(c *Closure, table *priority.Table) {
	children := t.children(c)
	slices.SortStableFunc(children, func(a, b *Closure) int {
		return len(b.Reduced) - len(a.Reduced)
	})

	for _, child := range children {
		if !c.Index.Contains(child.Reduced) {
			n := len(c.Resolved)
			for i := 0; i < n; i++ {
				r := c.Resolved[i]
				combined, ok := t.combine(c, r.Set, child.Reduced)
				if !ok {
					continue
				}
				source := int(child.ID)
				if table.Compare(r.Set, child.Reduced) {
					source = r.Source
				}
				t.insert(c, combined, source)
				t.stats.Combined++
			}
		}
		t.insert(c, child.Reduced, int(child.ID))
	}

	n := len(c.Resolved)
	for i := 0; i < n; i++ {
		r := c.Resolved[i]
		source := t.Closure(ID(r.Source))
		if source == nil {
			continue
		}
		for _, inherited := range source.Resolved {
			combined, ok := t.combine(c, inherited.Set, r.Set)
			if !ok {
				continue
			}
			t.insert(c, combined, matchset.NoSource)
			t.stats.Inherited++
		}
	}
}

// mergeChildren folds the resolved combinations of c's dependencies into one
// covering set. Children are visited most specific first; the first child
// with entries seeds the result.
func (t *Tree) mergeChildren(c *Closure) {
	children := t.children(c)
	slices.SortStableFunc(children, func(a, b *Closure) int {
		return firstSize(b) - firstSize(a)
	})

	for _, child := range children {
		if c.Index.IsEmpty() {
			c.Index.Merge(child.Index, &c.Resolved)
			continue
		}

		for _, ce := range child.Resolved {
			if c.Index.Contains(ce.Set) {
				continue
			}
			n := len(c.Resolved)
			for j := 0; j < n; j++ {
				combined, ok := t.combine(c, c.Resolved[j].Set, ce.Set)
				if !ok {
					continue
				}
				t.insert(c, combined, matchset.NoSource)
				t.stats.Combined++
			}
		}

		c.Index.Merge(child.Index, &c.Resolved)
	}
}

// combine merges two sets into a sorted candidate. It returns false when the
// sets conflict or the candidate is already resolved in c.
func (t *Tree) combine(c *Closure, dest, src variantset.Set) (variantset.Set, bool) {
	combined, ok := variantset.Merge(dest, src)
	if !ok {
		t.stats.Conflicts++
		axis, _ := variantset.ConflictingAxis(dest, src)
		t.report(Diagnostic{
			Kind:  KindConflict,
			Path:  c.Path(),
			Axis:  axis,
			Set:   dest.Clone(),
			Other: src.Clone(),
		})
		return nil, false
	}
	combined = combined.Sorted()
	if c.Index.Contains(combined) {
		t.stats.Duplicates++
		return nil, false
	}
	return combined, true
}

func (t *Tree) insert(c *Closure, set variantset.Set, source int) {
	if entry, created := c.Index.Insert(set, source); created {
		c.Resolved = append(c.Resolved, entry)
	}
}

// firstSize is the size of a merged closure's largest combination, or -1 when
// it resolved nothing, so that empty closures sort after closures whose only
// combination is the empty set.
func firstSize(c *Closure) int {
	if len(c.Resolved) == 0 {
		return -1
	}
	return len(c.Resolved[0].Set)
}

func sortBySize(entries []*matchset.Entry) {
	slices.SortStableFunc(entries, func(a, b *matchset.Entry) int {
		return len(b.Set) - len(a.Set)
	})
}
