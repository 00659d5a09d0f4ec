// Package cli implements the variants command-line tool.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Exit codes returned by Execute.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// Version is the tool version (set via -ldflags).
var Version = "dev"

// ExitError carries an exit code out of a command. A nil Err exits silently.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func usageError(err error) error {
	return &ExitError{Code: ExitUsage, Err: err}
}

// app is the state shared by all commands of one invocation.
type app struct {
	stdout     io.Writer
	stderr     io.Writer
	configFile string
	cfg        *Config
	log        *slog.Logger
}

// NewRootCommand builds the variants command tree writing to stdout and
// stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "variants",
		Short: "Compute the variant combinations to build for each entry point",
		Long: `variants resolves which combinations of file variants (button.locale=fr.js,
button.device_type=mobile.js, ...) must be built for each entry point of a
module graph, and writes them to a manifest.

Configuration is read from flags, VARIANTS_* environment variables and
` + ConfigFileName + ` in the working directory, in that order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	pf := root.PersistentFlags()
	pf.StringVar(&a.configFile, "config", "", "config file (default is ./"+ConfigFileName+")")
	pf.String("root", ".", "project directory")
	pf.String("project", "VARIANTS.bazel", "project file name inside the project directory")
	pf.String("graph", "", "graph file (overrides variant_graph)")
	pf.String("manifest", "", "manifest path (overrides variant_manifest)")
	pf.StringSlice("priority", nil, "axis priority patterns, highest first (overrides variant_priority)")
	pf.Int("concurrency", 1, "entries resolved in parallel")
	pf.String("log-level", "warn", "log level: debug, info, warn, error")

	root.AddCommand(
		newResolveCommand(a),
		newDiscoverCommand(a),
		newDiffCommand(a),
		newGraphCommand(a),
		newExpandCommand(a),
		newWatchCommand(a),
		newVersionCommand(a),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := loadConfig(viper.New(), cmd.Root().PersistentFlags(), a.configFile)
	if err != nil {
		return usageError(err)
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return usageError(fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err))
	}
	logger := log.NewWithOptions(a.stderr, log.Options{
		Prefix: "variants",
		Level:  level,
	})

	a.cfg = cfg
	a.log = slog.New(logger)
	return nil
}

// Execute runs the command line args and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	root := NewRootCommand(stdout, stderr)
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
	return ExitFailure
}

// exactArgs is cobra.ExactArgs reporting a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

func newVersionCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  exactArgs(0),
		RunE: func(_ *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(a.stdout, "variants %s\n", Version)
			return err
		},
	}
}
