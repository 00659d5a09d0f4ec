package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/go-variants/manifest"
)

func newExpandCommand(a *app) *cobra.Command {
	var entriesFile string
	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Add one bundler entry per variant combination",
		Long: `Expand reads bundler entries (a JSON object mapping entry names to lists of
imports) and prints them with one extra entry per non-empty combination of
the manifest (--manifest, or variant_manifest of the project). Imports of an
added entry carry the combination as a request query, for example
./src/index.js?variant:locale=fr.`,
		Args: exactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			if entriesFile == "" {
				return usageError(fmt.Errorf("--entries is required"))
			}
			p, err := a.loadProject()
			if err != nil {
				return err
			}
			path := a.manifestPath(&workspace{root: a.cfg.Root, project: p}, "")
			if path == "-" {
				return usageError(fmt.Errorf("no manifest: pass --manifest"))
			}

			m, err := manifest.ReadFile(path)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(entriesFile)
			if err != nil {
				return fmt.Errorf("failed to read entries: %w", err)
			}
			var entries map[string][]string
			if err := json.Unmarshal(data, &entries); err != nil {
				return fmt.Errorf("failed to parse entries %s: %w", entriesFile, err)
			}

			enc := json.NewEncoder(a.stdout)
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(manifest.ExpandEntries(entries, m))
		},
	}
	cmd.Flags().StringVarP(&entriesFile, "entries", "e", "", "JSON file with the bundler entries")
	return cmd
}
