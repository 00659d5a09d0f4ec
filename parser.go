package govariants

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/bazelbuild/buildtools/build"

	"github.com/albertocavalcante/go-variants/graph"
	"github.com/albertocavalcante/go-variants/internal/buildutil"
	"github.com/albertocavalcante/go-variants/manifest"
)

// ProjectFileName is the name of the project file looked up by ResolveProject.
const ProjectFileName = "VARIANTS.bazel"

// Project is the content of a VARIANTS.bazel file:
//
//	variant_priority(["locale", "device_type", "experiment.*"])
//	variant_entry(name = "main", src = "src/index.js")
//	variant_graph(path = "build/graph.json")
//	variant_manifest(path = "dist/variants.json")
type Project struct {
	// Filename is the file the project was parsed from.
	Filename string `json:"filename,omitempty"`

	// Priority holds the raw variant_priority list, or nil when the file does
	// not declare one. Entries are kept as parsed so that non-string items are
	// reported by priority.Build.
	Priority []any `json:"priority,omitempty"`

	// Entries maps entry names to the path of their root module.
	Entries map[string]string `json:"entries,omitempty"`

	// Graph is the path of the graph file, relative to the project directory.
	Graph string `json:"graph,omitempty"`

	// Manifest is the path of the output manifest, relative to the project
	// directory.
	Manifest string `json:"manifest,omitempty"`
}

// ParseError reports an invalid statement in a project file.
type ParseError struct {
	Filename string
	Pos      build.Position
	Msg      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Pos.Line, e.Pos.LineRune, e.Msg)
}

// ParseProjectFile reads and parses a project file from disk.
func ParseProjectFile(filename string) (*Project, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read project file: %w", err)
	}
	return ParseProject(filename, data)
}

// projectFunctions maps the functions of a project file to their keyword
// arguments.
var projectFunctions = map[string][]string{
	"variant_priority": {"patterns"},
	"variant_entry":    {"name", "src"},
	"variant_graph":    {"path"},
	"variant_manifest": {"path"},
}

// ParseProject parses the content of a project file.
func ParseProject(filename string, content []byte) (*Project, error) {
	f, err := build.ParseBuild(filename, content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filename, err)
	}

	p := &Project{Filename: filename, Entries: make(map[string]string)}
	seen := make(map[string]bool)

	for _, stmt := range f.Stmt {
		call, ok := stmt.(*build.CallExpr)
		if !ok {
			continue
		}
		name := buildutil.FuncName(call)

		perr := func(format string, args ...any) error {
			start, _ := call.Span()
			return &ParseError{Filename: filename, Pos: start, Msg: fmt.Sprintf(format, args...)}
		}

		allowed, known := projectFunctions[name]
		if !known {
			return nil, perr("unknown function %q", name)
		}
		for _, kw := range buildutil.Keywords(call) {
			if !slices.Contains(allowed, kw) {
				return nil, perr("%s: unknown argument %q", name, kw)
			}
		}
		if name != "variant_entry" {
			if seen[name] {
				return nil, perr("%s may only be called once", name)
			}
			seen[name] = true
		}

		switch name {
		case "variant_priority":
			values, ok := buildutil.List(call, "patterns", 0)
			if !ok {
				return nil, perr("variant_priority expects a list of patterns")
			}
			p.Priority = values

		case "variant_entry":
			entry, ok := buildutil.String(call, "name", 0)
			if !ok || entry == "" {
				return nil, perr("variant_entry requires a name")
			}
			src, ok := buildutil.String(call, "src", 1)
			if !ok || src == "" {
				return nil, perr("variant_entry %q requires a src", entry)
			}
			if _, dup := p.Entries[entry]; dup {
				return nil, perr("duplicate entry %q", entry)
			}
			p.Entries[entry] = src

		case "variant_graph":
			path, ok := buildutil.String(call, "path", 0)
			if !ok || path == "" {
				return nil, perr("variant_graph requires a path")
			}
			p.Graph = path

		case "variant_manifest":
			path, ok := buildutil.String(call, "path", 0)
			if !ok || path == "" {
				return nil, perr("variant_manifest requires a path")
			}
			p.Manifest = path
		}
	}

	return p, nil
}

// Options returns the resolution options the project declares.
func (p *Project) Options() []Option {
	if p.Priority == nil {
		return nil
	}
	return []Option{WithPriority(p.Priority...)}
}

// EntryNames returns the declared entry names in sorted order.
func (p *Project) EntryNames() []string {
	names := make([]string, 0, len(p.Entries))
	for name := range p.Entries {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ApplyEntries registers the project's entries in g, replacing entries of
// the same name.
func (p *Project) ApplyEntries(g *graph.Graph) error {
	for _, name := range p.EntryNames() {
		if err := g.SetEntry(name, p.Entries[name]); err != nil {
			return fmt.Errorf("%s: %w", p.Filename, err)
		}
	}
	return nil
}

// LoadGraph loads the project's graph file from dir and applies the
// project's entries to it.
func (p *Project) LoadGraph(dir string) (*graph.Graph, error) {
	if p.Graph == "" {
		return nil, fmt.Errorf("%s: no variant_graph declared", p.Filename)
	}
	g, err := graph.Load(filepath.Join(dir, p.Graph))
	if err != nil {
		return nil, fmt.Errorf("load graph: %w", err)
	}
	if err := p.ApplyEntries(g); err != nil {
		return nil, err
	}
	return g, nil
}

// ManifestPath returns where the manifest of a project in dir is written.
func (p *Project) ManifestPath(dir string) string {
	if p.Manifest == "" {
		return manifest.DefaultPath(dir)
	}
	return filepath.Join(dir, p.Manifest)
}

// ResolveProject reads dir/VARIANTS.bazel, loads the graph it names,
// discovers variant files under dir and resolves every entry. Options in
// opts are applied after the project's own, so they take precedence.
func ResolveProject(ctx context.Context, dir string, opts ...Option) (*Project, *Result, error) {
	p, err := ParseProjectFile(filepath.Join(dir, ProjectFileName))
	if err != nil {
		return nil, nil, err
	}
	g, err := p.LoadGraph(dir)
	if err != nil {
		return p, nil, err
	}

	all := append(p.Options(), WithDiscovery(os.DirFS(dir), 0))
	result, err := Resolve(ctx, g, append(all, opts...)...)
	if err != nil {
		return p, nil, err
	}
	return p, result, nil
}
