// Package govariants computes the variant combinations to build for each
// entry point of a module graph.
//
// Source files may come in variants that live next to them on disk, such as
// button.locale=fr.js or button.device_type=mobile.js. Given the dependency
// graph of an application and an ordering of variant axes, the package
// resolves, per entry, the smallest deterministic list of combinations that
// covers every variant reachable from it.
//
// # Quick Start
//
//	g, err := graph.Load("graph.json")
//	if err != nil {
//	    return err
//	}
//	result, err := govariants.Resolve(ctx, g,
//	    govariants.WithPriority("locale", "device_type", "experiment.*"),
//	)
//	if err != nil {
//	    return err
//	}
//	err = result.Manifest.WriteFile("dist/variants.json")
//
// # Discovery
//
// Variant files do not have to be listed in the graph. With WithDiscovery the
// graph is expanded from a file system before resolving:
//
//	result, err := govariants.Resolve(ctx, g, govariants.WithDiscovery(os.DirFS(root), 0))
//
// A project file (VARIANTS.bazel) can declare the priority, the entries and
// the file locations; see ParseProject and ResolveProject.
//
// # Conflicts
//
// Combinations that assign one axis two different values are never errors:
// they are dropped and reported as diagnostics in EntryResult.Diagnostics.
// Errors are reserved for malformed input such as dependency cycles.
//
// # Thread Safety
//
// Resolve does not modify the graph unless WithDiscovery is used. Packages
// variantset, priority and manifest are safe for concurrent reads.
package govariants

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/albertocavalcante/go-variants/closure"
	"github.com/albertocavalcante/go-variants/discovery"
	"github.com/albertocavalcante/go-variants/graph"
	"github.com/albertocavalcante/go-variants/manifest"
	"github.com/albertocavalcante/go-variants/priority"
)

// Resolve resolves the variant combinations of every entry of g.
//
// Entries are resolved independently; with WithConcurrency above 1 they run
// in parallel. The first failing entry cancels the others and its error is
// returned.
func Resolve(ctx context.Context, g *graph.Graph, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, fmt.Errorf("%w: nil graph", ErrInvalidGraph)
	}

	cfg, err := newResolverConfig(opts...)
	if err != nil {
		return nil, err
	}
	log := cfg.log()

	table, problems := cfg.priorityTable()
	for _, p := range problems {
		log.Warn("ignoring priority entry", "index", p.Index, "error", p)
	}
	log.Debug("priority", "patterns", table.Patterns())

	result := &Result{Manifest: manifest.New(), PriorityErrors: problems}

	if cfg.discoveryFS != nil {
		n, err := expand(g, table, cfg)
		if err != nil {
			return nil, err
		}
		result.Discovered = n
		cfg.progress(ProgressEvent{Type: ProgressDiscoveryEnd, Combinations: n})
	}

	if cfg.validate {
		if err := g.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidGraph, err)
		}
	}

	names, err := entryNames(g, cfg.entries)
	if err != nil {
		return nil, err
	}
	cfg.progress(ProgressEvent{Type: ProgressResolveStart, Total: len(names)})

	entries := make([]*EntryResult, len(names))
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(cfg.workers())
	for i, name := range names {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			root, _ := g.Entry(name)

			cfg.progress(ProgressEvent{Type: ProgressEntryStart, Entry: name, Total: len(names)})
			er, err := resolveEntry(name, root, table, cfg)
			end := ProgressEvent{Type: ProgressEntryEnd, Entry: name, Total: len(names), Err: err}
			if er != nil {
				end.Combinations = len(er.Combinations)
			}
			cfg.progress(end)

			if err != nil {
				return fmt.Errorf("entry %q: %w", name, err)
			}
			entries[i] = er
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	for _, er := range entries {
		result.Entries = append(result.Entries, er)
		result.Manifest.Set(er.Name, er.Combinations)
		result.Stats.Add(er.Stats)
	}

	cfg.progress(ProgressEvent{Type: ProgressResolveEnd, Total: len(names)})
	log.Debug("resolution complete",
		"entries", len(entries),
		"combinations", result.Manifest.Combinations(),
		"pruned", result.Stats.Pruned,
		"conflicts", result.Stats.Conflicts)

	return result, nil
}

// ResolveFile loads a graph file (JSON or YAML) and resolves it.
func ResolveFile(ctx context.Context, graphPath string, opts ...Option) (*Result, error) {
	g, err := graph.Load(graphPath)
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	return Resolve(ctx, g, opts...)
}

// ResolveEntry resolves a single entry of g.
func ResolveEntry(ctx context.Context, g *graph.Graph, name string, opts ...Option) (*EntryResult, error) {
	result, err := Resolve(ctx, g, append(opts, WithEntries(name))...)
	if err != nil {
		return nil, err
	}
	er, _ := result.Entry(name)
	return er, nil
}

func resolveEntry(name string, root *graph.Module, table *priority.Table, cfg *resolverConfig) (*EntryResult, error) {
	log := cfg.log().With("entry", name)

	tree, err := closure.Resolve(root, table, cfg.closureOptions())
	if err != nil {
		return nil, err
	}

	er := &EntryResult{
		Name:         name,
		Root:         root.Path,
		Combinations: tree.Combinations(),
		Diagnostics:  tree.Diagnostics(),
		Stats:        tree.Stats(),
		Tree:         tree,
	}

	for _, d := range er.Diagnostics {
		log.Debug("diagnostic", "kind", string(d.Kind), "path", d.Path, "axis", d.Axis)
	}
	log.Debug("resolved entry",
		"root", root.Path,
		"combinations", len(er.Combinations),
		"closures", er.Stats.Closures)

	return er, nil
}

func expand(g *graph.Graph, table *priority.Table, cfg *resolverConfig) (int, error) {
	scanner, err := discovery.NewScanner(cfg.discoveryFS, table, cfg.cacheSize)
	if err != nil {
		return 0, fmt.Errorf("create scanner: %w", err)
	}
	n, err := scanner.Expand(g)
	if err != nil {
		return 0, fmt.Errorf("discover variants: %w", err)
	}
	cfg.log().Debug("discovered variant files", "count", n)
	return n, nil
}

// entryNames returns the sorted, de-duplicated entries to resolve.
func entryNames(g *graph.Graph, requested []string) ([]string, error) {
	if len(g.Entries) == 0 {
		return nil, ErrNoEntries
	}
	if len(requested) == 0 {
		return g.EntryNames(), nil
	}

	names := slices.Clone(requested)
	slices.Sort(names)
	names = slices.Compact(names)
	for _, name := range names {
		if _, ok := g.Entry(name); !ok {
			return nil, fmt.Errorf("%w: %s", ErrEntryNotFound, name)
		}
	}
	return names, nil
}
