package cli

import (
	"context"

	"github.com/spf13/cobra"

	govariants "github.com/albertocavalcante/go-variants"
)

func newResolveCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve the graph as given and write the manifest",
		Long: `Resolve loads the graph (from --graph or the project file) and writes the
combinations of every entry to the manifest. Variant files must already be
listed in the graph; use discover to find them on disk.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.run(cmd.Context(), false, out)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "manifest output path, - for stdout")
	return cmd
}

func newDiscoverCommand(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Find variant files on disk, resolve and write the manifest",
		Long: `Discover loads the project, attaches the variant files found next to every
module of the graph (button.locale=fr.js next to button.js), resolves every
entry and writes the manifest. Variant files with axes outside the priority
are ignored.`,
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := a.run(cmd.Context(), true, out)
			return err
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "manifest output path, - for stdout")
	return cmd
}

// run loads the workspace, resolves it and writes the manifest.
func (a *app) run(ctx context.Context, discover bool, out string) (*govariants.Result, error) {
	ws, err := a.loadWorkspace()
	if err != nil {
		return nil, err
	}

	result, err := govariants.Resolve(ctx, ws.graph, a.options(ws, discover)...)
	if err != nil {
		return nil, err
	}
	a.report(result)

	if err := a.writeManifest(result.Manifest, a.manifestPath(ws, out)); err != nil {
		return nil, err
	}
	return result, nil
}

func (a *app) report(result *govariants.Result) {
	for _, p := range result.PriorityErrors {
		a.log.Warn("ignoring priority entry", "error", p)
	}
	if result.Discovered > 0 {
		a.log.Info("discovered variant files", "count", result.Discovered)
	}
	for _, e := range result.Entries {
		a.log.Info("resolved entry",
			"entry", e.Name,
			"combinations", len(e.Combinations),
			"pruned", e.Stats.Pruned,
			"conflicts", e.Stats.Conflicts)
		for _, d := range e.Diagnostics {
			a.log.Debug(d.String(), "entry", e.Name)
		}
		if e.Stats.DroppedDiagnostics > 0 {
			a.log.Debug("diagnostics dropped", "entry", e.Name, "count", e.Stats.DroppedDiagnostics)
		}
	}
}
