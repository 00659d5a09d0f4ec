// Command variants computes the variant combinations to build for each entry
// point of a module graph.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/albertocavalcante/go-variants/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := cli.Execute(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
