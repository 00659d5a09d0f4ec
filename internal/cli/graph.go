package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/go-variants/discovery"
	"github.com/albertocavalcante/go-variants/graph"
	"github.com/albertocavalcante/go-variants/priority"
)

func newGraphCommand(a *app) *cobra.Command {
	var (
		format   string
		discover bool
		validate bool
	)
	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render the module graph",
		Long: `Graph prints the module graph as text (default), Graphviz DOT, JSON or YAML.
With --discover, variant files found on disk are attached first, so the
output can be saved as a complete graph file.`,
		Args: exactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			ws, err := a.loadWorkspace()
			if err != nil {
				return err
			}

			if discover {
				if err := a.expand(ws); err != nil {
					return err
				}
			}
			if validate {
				if err := ws.graph.Validate(); err != nil {
					return err
				}
			}
			return renderGraph(a.stdout, ws.graph, format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format: text, dot, json, yaml")
	cmd.Flags().BoolVar(&discover, "discover", false, "attach variant files found on disk")
	cmd.Flags().BoolVar(&validate, "validate", false, "fail when the graph has dangling references or cycles")
	return cmd
}

func renderGraph(w io.Writer, g *graph.Graph, format string) error {
	var out string
	switch format {
	case "text":
		out = g.ToText()
	case "dot":
		out = g.ToDOT()
	case "json", "yaml":
		data, err := g.Marshal(graph.Format(format))
		if err != nil {
			return err
		}
		out = string(data)
	default:
		return usageError(fmt.Errorf("unknown format %q", format))
	}
	_, err := io.WriteString(w, out)
	return err
}

// expand attaches variant files from the project root to the graph.
func (a *app) expand(ws *workspace) error {
	table := priority.Default()
	if len(a.cfg.Priority) > 0 || (ws.project != nil && ws.project.Priority != nil) {
		var patterns []any
		if len(a.cfg.Priority) > 0 {
			for _, p := range a.cfg.Priority {
				patterns = append(patterns, p)
			}
		} else {
			patterns = ws.project.Priority
		}
		var problems []*priority.PatternError
		table, problems = priority.Build(patterns)
		for _, p := range problems {
			a.log.Warn("ignoring priority entry", "error", p)
		}
	}

	scanner, err := discovery.NewScanner(os.DirFS(ws.root), table, 0)
	if err != nil {
		return err
	}
	n, err := scanner.Expand(ws.graph)
	if err != nil {
		return err
	}
	a.log.Info("discovered variant files", "count", n)
	return nil
}
