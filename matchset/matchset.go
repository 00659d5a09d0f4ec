// Package matchset provides the trie used to index resolved variant sets.
//
// A Trie is keyed by the assignments of a variant set, in set order: every
// assignment follows an axis edge and, unless the axis carries the presence
// marker, a value edge below it. The node reached after the last assignment
// holds the [Entry] for that set. Axis edges and value edges live in separate
// maps, so {a: "b"} and {a, b} never share a terminal node.
//
// Membership tests and inserts cost O(number of axes), independent of how many
// entries the trie holds. Callers that want order-insensitive lookups insert
// and query sorted sets (see variantset.Set.Sorted).
package matchset

import (
	"iter"
	"maps"
	"slices"

	"github.com/albertocavalcante/go-variants/variantset"
)

// NoSource marks an entry that is not attributed to any source.
const NoSource = -1

// Entry is one resolved variant set.
type Entry struct {
	// Set is the resolved variant set.
	Set variantset.Set

	// Source identifies where the set comes from. Its meaning belongs to the
	// caller; NoSource means the entry carries no provenance.
	Source int
}

// Len returns the number of axes in the entry's set.
func (e *Entry) Len() int {
	return len(e.Set)
}

// HasSource reports whether the entry is attributed to a source.
func (e *Entry) HasSource() bool {
	return e.Source != NoSource
}

type node struct {
	axes   map[string]*node
	values map[string]*node
	entry  *Entry
}

func (n *node) axis(name string, create bool) *node {
	child := n.axes[name]
	if child == nil && create {
		if n.axes == nil {
			n.axes = make(map[string]*node)
		}
		child = &node{}
		n.axes[name] = child
	}
	return child
}

func (n *node) value(text string, create bool) *node {
	child := n.values[text]
	if child == nil && create {
		if n.values == nil {
			n.values = make(map[string]*node)
		}
		child = &node{}
		n.values[text] = child
	}
	return child
}

// Trie indexes variant sets. The zero value is not usable; call New.
// A Trie is not safe for concurrent mutation.
type Trie struct {
	root *node
	size int
}

// New returns an empty trie.
func New() *Trie {
	return &Trie{root: &node{}}
}

// Len returns the number of entries in the trie.
func (t *Trie) Len() int {
	return t.size
}

// IsEmpty reports whether the trie holds no entry.
func (t *Trie) IsEmpty() bool {
	return t.size == 0
}

func (t *Trie) find(set variantset.Set, create bool) *node {
	n := t.root
	for _, a := range set {
		n = n.axis(a.Axis, create)
		if n == nil {
			return nil
		}
		if text, ok := a.Value.Text(); ok {
			n = n.value(text, create)
			if n == nil {
				return nil
			}
		}
	}
	return n
}

// Insert records set with the given source and returns its entry. When an
// entry already exists for exactly this path it is updated in place with the
// new set and source, and created is false; the nodes below it are kept.
func (t *Trie) Insert(set variantset.Set, source int) (entry *Entry, created bool) {
	n := t.find(set, true)
	if n.entry != nil {
		n.entry.Set = set.Clone()
		n.entry.Source = source
		return n.entry, false
	}
	n.entry = &Entry{Set: set.Clone(), Source: source}
	t.size++
	return n.entry, true
}

// Contains reports whether set has an entry. An empty set matches only an
// entry stored at the root.
func (t *Trie) Contains(set variantset.Set) bool {
	n := t.find(set, false)
	return n != nil && n.entry != nil
}

// Lookup returns the entry stored for set.
func (t *Trie) Lookup(set variantset.Set) (*Entry, bool) {
	n := t.find(set, false)
	if n == nil || n.entry == nil {
		return nil, false
	}
	return n.entry, true
}

// Merge copies every entry of src that has no counterpart in t into t. Each
// entry created is a fresh copy of the source entry and is appended to out,
// so callers can track exactly what was added. Existing entries of t are left
// untouched. Merging a trie into itself adds nothing.
func (t *Trie) Merge(src *Trie, out *[]*Entry) {
	if src == nil || src == t {
		return
	}
	t.size += mergeNode(t.root, src.root, out)
}

func mergeNode(dest, src *node, out *[]*Entry) int {
	added := 0
	if src.entry != nil && dest.entry == nil {
		dest.entry = &Entry{Set: src.entry.Set.Clone(), Source: src.entry.Source}
		if out != nil {
			*out = append(*out, dest.entry)
		}
		added++
	}
	for name, child := range sortedChildren(src.axes) {
		added += mergeNode(dest.axis(name, true), child, out)
	}
	for text, child := range sortedChildren(src.values) {
		added += mergeNode(dest.value(text, true), child, out)
	}
	return added
}

// Walk calls fn for every entry in a deterministic depth-first order: an
// entry before the entries below it, siblings by edge name. Walk stops when fn
// returns false.
func (t *Trie) Walk(fn func(*Entry) bool) {
	walkNode(t.root, fn)
}

func walkNode(n *node, fn func(*Entry) bool) bool {
	if n.entry != nil && !fn(n.entry) {
		return false
	}
	for _, child := range sortedChildren(n.axes) {
		if !walkNode(child, fn) {
			return false
		}
	}
	for _, child := range sortedChildren(n.values) {
		if !walkNode(child, fn) {
			return false
		}
	}
	return true
}

func sortedChildren(children map[string]*node) iter.Seq2[string, *node] {
	return func(yield func(string, *node) bool) {
		for _, name := range slices.Sorted(maps.Keys(children)) {
			if !yield(name, children[name]) {
				return
			}
		}
	}
}

// Entries returns all entries in Walk order.
func (t *Trie) Entries() []*Entry {
	entries := make([]*Entry, 0, t.size)
	t.Walk(func(e *Entry) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}
