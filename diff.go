package govariants

import (
	"sort"

	"github.com/albertocavalcante/go-variants/manifest"
)

// EntryChange lists the combinations of an entry that differ between two
// manifests.
type EntryChange struct {
	// Entry is the entry name.
	Entry string `json:"entry"`

	// Added contains combinations present in new but not in old.
	Added []manifest.Combination `json:"added,omitempty"`

	// Removed contains combinations present in old but not in new.
	Removed []manifest.Combination `json:"removed,omitempty"`
}

// ManifestDiff describes the differences between two manifests.
//
// Combinations are compared as variant sets, so ["a=1", "b=2"] and
// ["b=2", "a=1"] are the same combination. Order changes are not reported.
//
// Example usage:
//
//	old, _ := manifest.ReadFile("dist/variants.json")
//	diff := DiffManifests(old, result.Manifest)
//	if !diff.IsEmpty() {
//	    fmt.Printf("%d entries added, %d removed, %d changed\n",
//	        len(diff.AddedEntries), len(diff.RemovedEntries), len(diff.Changed))
//	}
type ManifestDiff struct {
	// AddedEntries contains entries present in new but not in old.
	AddedEntries []string `json:"added_entries,omitempty"`

	// RemovedEntries contains entries present in old but not in new.
	RemovedEntries []string `json:"removed_entries,omitempty"`

	// Changed contains entries present in both with different combinations.
	Changed []EntryChange `json:"changed,omitempty"`
}

// IsEmpty returns true if the manifests resolve the same combinations.
func (d *ManifestDiff) IsEmpty() bool {
	return len(d.AddedEntries) == 0 &&
		len(d.RemovedEntries) == 0 &&
		len(d.Changed) == 0
}

// TotalChanges returns the number of added and removed entries plus the
// number of added and removed combinations of changed entries.
func (d *ManifestDiff) TotalChanges() int {
	n := len(d.AddedEntries) + len(d.RemovedEntries)
	for _, c := range d.Changed {
		n += len(c.Added) + len(c.Removed)
	}
	return n
}

// DiffManifests computes the difference between two manifests. Either may
// be nil, which is treated as an empty manifest. Entries and combinations
// are reported in sorted order.
func DiffManifests(old, new *manifest.Manifest) *ManifestDiff {
	diff := &ManifestDiff{}

	oldEntries := entriesOf(old)
	newEntries := entriesOf(new)

	for name := range newEntries {
		if _, ok := oldEntries[name]; !ok {
			diff.AddedEntries = append(diff.AddedEntries, name)
		}
	}
	for name, oldCombos := range oldEntries {
		newCombos, ok := newEntries[name]
		if !ok {
			diff.RemovedEntries = append(diff.RemovedEntries, name)
			continue
		}
		change := EntryChange{
			Entry:   name,
			Added:   missing(newCombos, oldCombos),
			Removed: missing(oldCombos, newCombos),
		}
		if len(change.Added) > 0 || len(change.Removed) > 0 {
			diff.Changed = append(diff.Changed, change)
		}
	}

	sort.Strings(diff.AddedEntries)
	sort.Strings(diff.RemovedEntries)
	sort.Slice(diff.Changed, func(i, j int) bool {
		return diff.Changed[i].Entry < diff.Changed[j].Entry
	})

	return diff
}

func entriesOf(m *manifest.Manifest) map[string][]manifest.Combination {
	if m == nil {
		return nil
	}
	return m.Entries
}

// missing returns the combinations of from that are not in other, sorted by
// their canonical key.
func missing(from, other []manifest.Combination) []manifest.Combination {
	present := make(map[string]bool, len(other))
	for _, c := range other {
		present[c.VariantSet().Key()] = true
	}

	var out []manifest.Combination
	for _, c := range from {
		key := c.VariantSet().Key()
		if !present[key] {
			present[key] = true
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].VariantSet().Key() < out[j].VariantSet().Key()
	})
	return out
}
