package cli

import (
	"context"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/progress"
	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
)

// runStages runs work with live stage output: a progress view on a
// terminal, one line per event otherwise.
func runStages(cmd *cobra.Command, title string, work func(ctx context.Context) error) error {
	ctx := commandContext(cmd)
	if interactive(cmd) {
		return progress.Run(ctx, cmd.OutOrStdout(), title, observe, work)
	}

	var mu sync.Mutex
	observe(func(event domain.StageEvent) {
		mu.Lock()
		defer mu.Unlock()
		printEvent(cmd, event)
	})
	defer observe(nil)
	return work(ctx)
}

func observe(observer driving.StageObserver) {
	for _, o := range observables {
		o.SetObserver(observer)
	}
}

func printEvent(cmd *cobra.Command, event domain.StageEvent) {
	switch event.Kind {
	case domain.EventStarted:
		cmd.Printf("… %s\n", event.Stage.Label())
	case domain.EventSucceeded:
		cmd.Printf("✓ %s\n", event.Stage.Label())
	case domain.EventFailed:
		cmd.Printf("✗ %s: %s\n", event.Stage.Label(), event.Message)
	}
}

// interactive reports whether output goes to a terminal and verbose
// logging is off.
func interactive(cmd *cobra.Command) bool {
	if verbose {
		return false
	}
	f, ok := cmd.OutOrStdout().(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
