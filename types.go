package govariants

import (
	"sort"

	"github.com/albertocavalcante/go-variants/closure"
	"github.com/albertocavalcante/go-variants/manifest"
	"github.com/albertocavalcante/go-variants/priority"
)

// ProgressEventType identifies a step of a resolution.
type ProgressEventType string

const (
	// ProgressResolveStart is emitted once the entries to resolve are known.
	ProgressResolveStart ProgressEventType = "resolve_start"

	// ProgressDiscoveryEnd is emitted after variant files were attached.
	ProgressDiscoveryEnd ProgressEventType = "discovery_end"

	// ProgressEntryStart is emitted before an entry is resolved.
	ProgressEntryStart ProgressEventType = "entry_start"

	// ProgressEntryEnd is emitted after an entry is resolved, successfully or not.
	ProgressEntryEnd ProgressEventType = "entry_end"

	// ProgressResolveEnd is emitted when every entry was resolved.
	ProgressResolveEnd ProgressEventType = "resolve_end"
)

// ProgressEvent reports resolution progress to a WithProgress callback.
type ProgressEvent struct {
	Type ProgressEventType

	// Entry is the entry name for entry events.
	Entry string

	// Total is the number of entries being resolved.
	Total int

	// Combinations is the number of combinations of a resolved entry, or the
	// number of variant files attached for ProgressDiscoveryEnd.
	Combinations int

	// Err is set on ProgressEntryEnd when the entry failed.
	Err error
}

// EntryResult is the resolution of one entry point.
type EntryResult struct {
	// Name is the entry name.
	Name string `json:"name"`

	// Root is the path of the entry's root module.
	Root string `json:"root"`

	// Combinations lists the variant combinations to build, most specific
	// first. An empty combination stands for the default build.
	Combinations [][]string `json:"combinations"`

	// Diagnostics lists pruned closures and skipped conflicting combinations.
	Diagnostics []closure.Diagnostic `json:"-"`

	Stats closure.Stats `json:"stats"`

	// Tree is the resolved closure tree.
	Tree *closure.Tree `json:"-"`
}

// Result holds the resolution of every requested entry.
type Result struct {
	// Manifest maps entry names to their combinations.
	Manifest *manifest.Manifest

	// Entries holds one result per entry, sorted by name.
	Entries []*EntryResult

	// PriorityErrors lists configured priority entries that were ignored.
	PriorityErrors []*priority.PatternError

	// Discovered is the number of variant files attached by discovery.
	Discovered int

	// Stats sums the statistics of all entries.
	Stats closure.Stats
}

// Entry returns the result for the named entry.
func (r *Result) Entry(name string) (*EntryResult, bool) {
	i := sort.Search(len(r.Entries), func(i int) bool {
		return r.Entries[i].Name >= name
	})
	if i < len(r.Entries) && r.Entries[i].Name == name {
		return r.Entries[i], true
	}
	return nil, false
}

// Diagnostics returns the diagnostics of every entry in entry order.
func (r *Result) Diagnostics() []closure.Diagnostic {
	var out []closure.Diagnostic
	for _, e := range r.Entries {
		out = append(out, e.Diagnostics...)
	}
	return out
}
