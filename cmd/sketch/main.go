// Command sketch exports images through the filter chain and edits archived
// drawing sessions.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/gogpu/sketch/internal/cli"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := cli.NewRootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "sketch: %v\n", err)
		stop()
		os.Exit(1)
	}
}
