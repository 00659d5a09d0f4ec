package closure

import (
	"fmt"

	"github.com/albertocavalcante/go-variants/variantset"
)

// Kind classifies a diagnostic.
type Kind string

const (
	// KindPruned reports a module whose variant set conflicts with an
	// ancestor; it was dropped with everything beneath it.
	KindPruned Kind = "pruned"

	// KindConflict reports a combination that was skipped because its two
	// sides assign different values to the same axis.
	KindConflict Kind = "conflict"
)

// Diagnostic describes one conflict met while building or merging a tree.
type Diagnostic struct {
	Kind Kind

	// Path is the module whose closure reported the conflict.
	Path string

	// Parent is the module the pruned closure would have been attached to.
	// Empty for conflicts.
	Parent string

	// Axis is the conflicting axis.
	Axis string

	// Set and Other are the two sides of the conflict.
	Set   variantset.Set
	Other variantset.Set
}

func (d Diagnostic) String() string {
	switch d.Kind {
	case KindPruned:
		return fmt.Sprintf("pruned %s under %s: %s conflicts with %s on axis %q",
			d.Path, d.Parent, d.Set, d.Other, d.Axis)
	default:
		return fmt.Sprintf("%s: skipped %s + %s: conflicting axis %q",
			d.Path, d.Set, d.Other, d.Axis)
	}
}

// Stats counts the work done on a tree.
type Stats struct {
	// Closures is the number of closures attached to the tree.
	Closures int
	// Pruned is the number of closures dropped for conflicting with an
	// ancestor.
	Pruned int
	// Combined is the number of combinations created by pairing entries.
	Combined int
	// Inherited is the number of combinations inherited from provenance
	// closures.
	Inherited int
	// Conflicts is the number of candidate combinations skipped on conflict.
	Conflicts int
	// Duplicates is the number of candidate combinations already resolved.
	Duplicates int
	// Resolved is the number of combinations of the root closure.
	Resolved int
	// DroppedDiagnostics counts diagnostics past the configured bound.
	DroppedDiagnostics int
}

// Add accumulates o into the receiver.
func (s *Stats) Add(o Stats) {
	s.Closures += o.Closures
	s.Pruned += o.Pruned
	s.Combined += o.Combined
	s.Inherited += o.Inherited
	s.Conflicts += o.Conflicts
	s.Duplicates += o.Duplicates
	s.Resolved += o.Resolved
	s.DroppedDiagnostics += o.DroppedDiagnostics
}
