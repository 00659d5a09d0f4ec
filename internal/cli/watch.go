package cli

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/albertocavalcante/go-variants/internal/watch"
)

func newWatchCommand(a *app) *cobra.Command {
	var (
		out      string
		patterns []string
		ignore   []string
		debounce time.Duration
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run discover whenever files under the project change",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if _, err := a.run(ctx, true, out); err != nil {
				a.log.Error("discover failed", "error", err)
			}

			// Writing the manifest must not trigger another run.
			ignores := append([]string(nil), ignore...)
			if rel, ok := a.relativeManifest(out); ok {
				ignores = append(ignores, rel)
			}

			w, err := watch.New(watch.Config{
				Root:     a.cfg.Root,
				Patterns: patterns,
				Ignore:   ignores,
				Debounce: debounce,
				Logger:   a.log,
				OnChange: func(ctx context.Context, changed []string) error {
					a.log.Info("files changed", "count", len(changed), "first", changed[0])
					_, err := a.run(ctx, true, out)
					return err
				},
			})
			if err != nil {
				return err
			}
			a.log.Info("watching", "root", a.cfg.Root)
			return w.Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "manifest output path")
	cmd.Flags().StringSliceVar(&patterns, "pattern", nil, "glob of files that trigger a run (default all files)")
	cmd.Flags().StringSliceVar(&ignore, "ignore", nil, "glob of files that never trigger a run")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "quiet period before re-running")
	return cmd
}

// relativeManifest returns the manifest path relative to the project root
// when the manifest is written inside it.
func (a *app) relativeManifest(out string) (string, bool) {
	p, err := a.loadProject()
	if err != nil {
		return "", false
	}
	path := a.manifestPath(&workspace{root: a.cfg.Root, project: p}, out)
	if path == "-" {
		return "", false
	}

	root, err := filepath.Abs(a.cfg.Root)
	if err != nil {
		return "", false
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
