package graph

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// CycleError reports a module that depends on itself, directly or through
// other modules or variant files.
type CycleError struct {
	// Cycle lists module paths along the cycle; the first path is repeated
	// at the end.
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(e.Cycle, " -> "))
}

// EntryNames returns the entry names in sorted order.
func (g *Graph) EntryNames() []string {
	return sortedKeys(g.Entries)
}

// edges returns the modules the resolver walks into from m: variant files
// first, then dependencies.
func edges(m *Module) []*Module {
	if len(m.Variants) == 0 {
		return m.Children
	}
	out := make([]*Module, 0, len(m.Variants)+len(m.Children))
	out = append(out, m.Variants...)
	return append(out, m.Children...)
}

// Reachable returns every module reachable from the named entry, the root
// included, in breadth-first order.
func (g *Graph) Reachable(entry string) []*Module {
	root, ok := g.Entry(entry)
	if !ok {
		return nil
	}

	result := []*Module{root}
	visited := map[*Module]bool{root: true}

	for i := 0; i < len(result); i++ {
		for _, next := range edges(result[i]) {
			if !visited[next] {
				visited[next] = true
				result = append(result, next)
			}
		}
	}
	return result
}

// Dependents returns the paths of modules that list path as a dependency or
// as a variant file, sorted.
func (g *Graph) Dependents(path string) []string {
	var result []string
	for p, m := range g.Modules {
		for _, next := range edges(m) {
			if next.Path == path {
				result = append(result, p)
				break
			}
		}
	}
	slices.Sort(result)
	return result
}

// Path finds the shortest chain of modules from one path to another,
// following dependency and variant edges. Returns nil if no path exists.
func (g *Graph) Path(from, to string) []string {
	start := g.Modules[from]
	if start == nil {
		return nil
	}
	if from == to {
		return []string{from}
	}

	type queueItem struct {
		module *Module
		path   []string
	}

	visited := map[*Module]bool{start: true}
	queue := []queueItem{{module: start, path: []string{from}}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range edges(current.module) {
			if visited[next] {
				continue
			}
			visited[next] = true
			nextPath := append(slices.Clone(current.path), next.Path)
			if next.Path == to {
				return nextPath
			}
			queue = append(queue, queueItem{module: next, path: nextPath})
		}
	}

	return nil
}

// HasCycles returns true if the graph contains cycles.
func (g *Graph) HasCycles() bool {
	return len(g.FindCycles()) > 0
}

// FindCycles returns the cycles of the graph. Modules are visited in path
// order so the result is deterministic.
func (g *Graph) FindCycles() [][]string {
	var cycles [][]string
	visited := make(map[*Module]bool)
	recStack := make(map[*Module]bool)
	path := make([]*Module, 0)

	var findCycles func(m *Module)
	findCycles = func(m *Module) {
		visited[m] = true
		recStack[m] = true
		path = append(path, m)

		for _, next := range edges(m) {
			if !visited[next] {
				findCycles(next)
				continue
			}
			if !recStack[next] {
				continue
			}
			start := slices.Index(path, next)
			cycle := make([]string, 0, len(path)-start+1)
			for _, p := range path[start:] {
				cycle = append(cycle, p.Path)
			}
			cycles = append(cycles, append(cycle, next.Path))
		}

		path = path[:len(path)-1]
		recStack[m] = false
	}

	for _, p := range sortedKeys(g.Modules) {
		if m := g.Modules[p]; !visited[m] {
			findCycles(m)
		}
	}

	return cycles
}

// Validate checks the graph for problems that would make resolution fail or
// produce surprising output: entries without a module, edges to modules that
// are not registered, variant files without a variant set, unsorted variant
// lists and cycles. All problems are returned joined.
func (g *Graph) Validate() error {
	var errs []error

	for _, name := range g.EntryNames() {
		m := g.Entries[name]
		switch {
		case m == nil:
			errs = append(errs, &ReferenceError{From: name, Kind: RefEntry})
		case g.Modules[m.Path] != m:
			errs = append(errs, &ReferenceError{From: name, To: m.Path, Kind: RefEntry})
		}
	}

	for _, path := range sortedKeys(g.Modules) {
		m := g.Modules[path]
		for _, c := range m.Children {
			if g.Modules[c.Path] != c {
				errs = append(errs, &ReferenceError{From: path, To: c.Path, Kind: RefDependency})
			}
		}
		for _, v := range m.Variants {
			if g.Modules[v.Path] != v {
				errs = append(errs, &ReferenceError{From: path, To: v.Path, Kind: RefVariant})
			}
			if !v.IsVariant() {
				errs = append(errs, fmt.Errorf("module %q: variant %q has no variant set", path, v.Path))
			}
		}
		if !slices.IsSortedFunc(m.Variants, func(a, b *Module) int {
			return len(b.VariantSet) - len(a.VariantSet)
		}) {
			errs = append(errs, fmt.Errorf("module %q: variants are not ordered by size", path))
		}
	}

	for _, cycle := range g.FindCycles() {
		errs = append(errs, &CycleError{Cycle: cycle})
	}

	return errors.Join(errs...)
}

// Stats returns statistics about the graph.
func (g *Graph) Stats() Stats {
	stats := Stats{
		Entries: len(g.Entries),
		Modules: len(g.Modules),
	}

	axes := make(map[string]bool)
	for _, m := range g.Modules {
		if m.IsVariant() {
			stats.VariantFiles++
			for _, a := range m.VariantSet {
				axes[a.Axis] = true
			}
		}
		if m.HasVariants() {
			stats.VariantModules++
		}
		stats.Dependencies += len(m.Children)
	}
	stats.Axes = sortedKeys(axes)
	stats.MaxDepth = g.calculateMaxDepth()

	return stats
}

func (g *Graph) calculateMaxDepth() int {
	depths := make(map[*Module]int)
	onPath := make(map[*Module]bool)
	var maxDepth int

	var dfs func(m *Module, depth int)
	dfs = func(m *Module, depth int) {
		if onPath[m] {
			return
		}
		if existing, ok := depths[m]; ok && existing >= depth {
			return
		}
		depths[m] = depth
		maxDepth = max(maxDepth, depth)

		onPath[m] = true
		for _, next := range edges(m) {
			dfs(next, depth+1)
		}
		delete(onPath, m)
	}

	for _, name := range g.EntryNames() {
		if root := g.Entries[name]; root != nil {
			dfs(root, 0)
		}
	}
	return maxDepth
}
