package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	govariants "github.com/albertocavalcante/go-variants"
	"github.com/albertocavalcante/go-variants/graph"
	"github.com/albertocavalcante/go-variants/manifest"
)

// workspace is the project a command operates on.
type workspace struct {
	root    string
	project *govariants.Project // nil when there is no project file
	graph   *graph.Graph
}

// loadProject parses the project file if there is one.
func (a *app) loadProject() (*govariants.Project, error) {
	path := filepath.Join(a.cfg.Root, a.cfg.Project)
	p, err := govariants.ParseProjectFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		a.log.Debug("no project file", "path", path)
		return nil, nil
	}
	return p, err
}

// loadWorkspace loads the project file and the graph. --graph takes
// precedence over variant_graph and is resolved against the working
// directory; variant_graph is resolved against the project root.
func (a *app) loadWorkspace() (*workspace, error) {
	p, err := a.loadProject()
	if err != nil {
		return nil, err
	}
	ws := &workspace{root: a.cfg.Root, project: p}

	switch {
	case a.cfg.Graph != "":
		ws.graph, err = graph.Load(a.cfg.Graph)
		if err == nil && p != nil {
			err = p.ApplyEntries(ws.graph)
		}
	case p != nil:
		ws.graph, err = p.LoadGraph(a.cfg.Root)
	default:
		return nil, usageError(fmt.Errorf("no graph: pass --graph or create %s", filepath.Join(a.cfg.Root, a.cfg.Project)))
	}
	if err != nil {
		return nil, err
	}

	a.log.Debug("loaded graph", "modules", len(ws.graph.Modules), "entries", len(ws.graph.Entries))
	return ws, nil
}

// options assembles resolution options: project settings first, then CLI
// configuration, which wins.
func (a *app) options(ws *workspace, discover bool) []govariants.Option {
	var opts []govariants.Option
	if ws.project != nil {
		opts = append(opts, ws.project.Options()...)
	}
	if len(a.cfg.Priority) > 0 {
		patterns := make([]any, len(a.cfg.Priority))
		for i, p := range a.cfg.Priority {
			patterns[i] = p
		}
		opts = append(opts, govariants.WithPriority(patterns...))
	}
	opts = append(opts,
		govariants.WithConcurrency(a.cfg.Concurrency),
		govariants.WithLogger(a.log),
	)
	if discover {
		opts = append(opts, govariants.WithDiscovery(os.DirFS(ws.root), 0))
	}
	return opts
}

// manifestPath picks where to write the manifest: the explicit value, the
// configured one, the project's, or stdout.
func (a *app) manifestPath(ws *workspace, explicit string) string {
	switch {
	case explicit != "":
		return explicit
	case a.cfg.Manifest != "":
		return a.cfg.Manifest
	case ws != nil && ws.project != nil:
		return ws.project.ManifestPath(ws.root)
	default:
		return "-"
	}
}

func (a *app) writeManifest(m *manifest.Manifest, path string) error {
	if path == "-" {
		_, err := m.WriteTo(a.stdout)
		return err
	}
	if err := m.WriteFile(path); err != nil {
		return err
	}
	a.log.Info("wrote manifest", "path", path, "entries", m.Len(), "combinations", m.Combinations())
	return nil
}
