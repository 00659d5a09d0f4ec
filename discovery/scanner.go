package discovery

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"sort"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/albertocavalcante/go-variants/graph"
	"github.com/albertocavalcante/go-variants/priority"
	"github.com/albertocavalcante/go-variants/variantset"
)

// DefaultCacheSize is the number of directory listings a Scanner keeps.
const DefaultCacheSize = 1024

// Variant is a variant file found next to a module file.
type Variant struct {
	Path       string
	VariantSet variantset.Set
}

// Scanner finds variant files in a file system. Directory listings are cached,
// so a Scanner sees a snapshot of each directory from its first listing until
// Reset is called. A Scanner is safe for concurrent use.
type Scanner struct {
	fsys  fs.FS
	table *priority.Table
	cache *lru.Cache[string, []string]
}

// NewScanner creates a scanner over fsys. Variant files with axes that no
// rule of table matches are ignored. cacheSize <= 0 selects
// DefaultCacheSize.
func NewScanner(fsys fs.FS, table *priority.Table, cacheSize int) (*Scanner, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	cache, err := lru.New[string, []string](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Scanner{fsys: fsys, table: table, cache: cache}, nil
}

// Reset drops all cached directory listings.
func (s *Scanner) Reset() {
	s.cache.Purge()
}

// listing returns the sorted file names of dir.
func (s *Scanner) listing(dir string) ([]string, error) {
	if names, ok := s.cache.Get(dir); ok {
		return names, nil
	}

	entries, err := fs.ReadDir(s.fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)

	s.cache.Add(dir, names)
	return names, nil
}

// candidates returns the names of dir that start with prefix.
func candidates(names []string, prefix string) []string {
	first := sort.SearchStrings(names, prefix)
	last := first
	for last < len(names) && strings.HasPrefix(names[last], prefix) {
		last++
	}
	return names[first:last]
}

// Variants returns the variant files of the module at file, largest variant
// set first. Files whose variant set has an axis outside the priority table
// are skipped.
func (s *Scanner) Variants(file string) ([]Variant, error) {
	dir := path.Dir(file)
	names, err := s.listing(dir)
	if err != nil {
		return nil, err
	}

	p := Pattern(file)
	var variants []Variant
	for _, name := range candidates(names, p.Base) {
		set, ok := VariantSetOf(name, p)
		if !ok || set.IsEmpty() {
			continue
		}
		if len(s.table.Unranked(set)) > 0 {
			continue
		}
		variants = append(variants, Variant{Path: path.Join(dir, name), VariantSet: set})
	}

	slices.SortStableFunc(variants, func(a, b Variant) int {
		return len(b.VariantSet) - len(a.VariantSet)
	})
	return variants, nil
}

// Expand attaches the variant files found on disk to every module of g that
// is not itself a variant file. Module paths are taken relative to the
// scanner's file system. It returns the number of variant files attached and
// may be called again after the file system changed.
func (s *Scanner) Expand(g *graph.Graph) (int, error) {
	var modules []*graph.Module
	for _, m := range g.Modules {
		if !m.IsVariant() {
			modules = append(modules, m)
		}
	}
	slices.SortFunc(modules, func(a, b *graph.Module) int {
		return strings.Compare(a.Path, b.Path)
	})

	attached := 0
	for _, m := range modules {
		variants, err := s.Variants(m.Path)
		if err != nil {
			return attached, err
		}
		for _, v := range variants {
			vm := g.Add(v.Path, v.VariantSet)
			if m.AddVariant(vm) {
				attached++
			}
		}
		m.SortVariants()
	}
	return attached, nil
}

// Resolve returns the variant of file that best matches target: the file
// whose whole variant set is assigned by target, preferred by the priority
// table. It returns file itself when no variant qualifies.
func (s *Scanner) Resolve(file string, target variantset.Set) (string, error) {
	if target.IsEmpty() {
		return file, nil
	}
	dir := path.Dir(file)
	names, err := s.listing(dir)
	if err != nil {
		return "", err
	}
	if name, ok := Select(names, file, target, s.table); ok {
		return path.Join(dir, name), nil
	}
	return file, nil
}

// Select picks among names the variant of file to use for target. A name
// qualifies when every axis of its variant set is assigned the same value by
// target; the module file itself always qualifies. Between qualifying names,
// later ones replace the current choice whenever table.Compare prefers them.
// ok is false when no name qualifies.
func Select(names []string, file string, target variantset.Set, table *priority.Table) (string, bool) {
	p := Pattern(file)

	var (
		chosen    string
		chosenSet variantset.Set
		found     bool
	)
	for _, name := range names {
		set, ok := VariantSetOf(name, p)
		if !ok {
			continue
		}
		rest, ok := variantset.Reduce(set, target)
		if !ok || !rest.IsEmpty() {
			continue
		}
		if table.Compare(set, chosenSet) {
			chosen, chosenSet, found = name, set, true
		}
	}
	return chosen, found
}
