package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui"
)

var errNoTerminal = errors.New("browse needs an interactive terminal")

// Seams replaced in tests.
var (
	browseTerminal = interactive
	runBrowser     = func(app *tui.App) error { return app.Run() }
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse your ebooks interactively",
	Long: `Open a full-screen browser over your ebooks.

Pick an ebook to see its chapters and assets, read a chapter, regenerate
it, or run every enrichment stage at once.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Open / Actions
  e        - Enrich the open ebook
  r        - Reload
  Esc      - Back
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runBrowse,
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

func runBrowse(cmd *cobra.Command, _ []string) (err error) {
	if pipelineService == nil {
		return errNotConfigured("pipeline")
	}
	if assetService == nil {
		return errNotConfigured("asset")
	}
	if !browseTerminal(cmd) {
		return errNoTerminal
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("browser panic: %v", r)
		}
	}()

	app, err := tui.NewApp(&tui.Ports{
		Pipeline: pipelineService,
		Assets:   assetService,
		Legal:    legalOptions(),
	})
	if err != nil {
		return fmt.Errorf("failed to create browser: %w", err)
	}
	ctx := commandContext(cmd)
	app.WithContext(ctx)

	if err := runBrowser(app); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("browser error: %w", err)
	}
	return nil
}
