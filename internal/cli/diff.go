package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	govariants "github.com/albertocavalcante/go-variants"
	"github.com/albertocavalcante/go-variants/manifest"
)

func newDiffCommand(a *app) *cobra.Command {
	var (
		exitCode bool
		asJSON   bool
	)
	cmd := &cobra.Command{
		Use:   "diff OLD NEW",
		Short: "Compare two manifests",
		Args:  exactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			oldM, err := manifest.ReadFile(args[0])
			if err != nil {
				return err
			}
			newM, err := manifest.ReadFile(args[1])
			if err != nil {
				return err
			}

			diff := govariants.DiffManifests(oldM, newM)
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(diff); err != nil {
					return err
				}
			} else {
				printDiff(a, diff)
			}

			if exitCode && !diff.IsEmpty() {
				return &ExitError{Code: ExitFailure}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "exit with status 1 when the manifests differ")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the diff as JSON")
	return cmd
}

func printDiff(a *app, d *govariants.ManifestDiff) {
	if d.IsEmpty() {
		fmt.Fprintln(a.stdout, "no changes")
		return
	}
	for _, name := range d.AddedEntries {
		fmt.Fprintf(a.stdout, "+ entry %s\n", name)
	}
	for _, name := range d.RemovedEntries {
		fmt.Fprintf(a.stdout, "- entry %s\n", name)
	}
	for _, c := range d.Changed {
		fmt.Fprintf(a.stdout, "~ entry %s\n", c.Entry)
		for _, combo := range c.Added {
			fmt.Fprintf(a.stdout, "    + [%s]\n", strings.Join(combo, ", "))
		}
		for _, combo := range c.Removed {
			fmt.Fprintf(a.stdout, "    - [%s]\n", strings.Join(combo, ", "))
		}
	}
	fmt.Fprintf(a.stdout, "%d change(s)\n", d.TotalChanges())
}
