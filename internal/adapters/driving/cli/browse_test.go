package cli

import (
	"errors"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/messages"
)

func stubBrowser(t *testing.T, terminal bool, run func(app *tui.App) error) {
	t.Helper()
	prevTerminal, prevRun := browseTerminal, runBrowser
	browseTerminal = func(*cobra.Command) bool { return terminal }
	runBrowser = run
	t.Cleanup(func() {
		browseTerminal, runBrowser = prevTerminal, prevRun
	})
}

func TestBrowse_RunsApp(t *testing.T) {
	setupTestServices(t)
	var started *tui.App
	stubBrowser(t, true, func(app *tui.App) error {
		started = app
		return nil
	})

	_, err := execute(t, "browse")

	require.NoError(t, err)
	require.NotNil(t, started)
	assert.Equal(t, messages.ViewEbooks, started.CurrentView())
}

func TestBrowse_RequiresTerminal(t *testing.T) {
	setupTestServices(t)
	stubBrowser(t, false, func(*tui.App) error {
		t.Fatal("browser must not start without a terminal")
		return nil
	})

	_, err := execute(t, "browse")

	assert.ErrorIs(t, err, errNoTerminal)
}

func TestBrowse_NotConfigured(t *testing.T) {
	setupTestServices(t)
	pipelineService = nil
	stubBrowser(t, true, func(*tui.App) error { return nil })

	_, err := execute(t, "browse")

	assert.EqualError(t, err, "pipeline service not configured")
}

func TestBrowse_WrapsRunError(t *testing.T) {
	setupTestServices(t)
	stubBrowser(t, true, func(*tui.App) error { return errors.New("tty lost") })

	_, err := execute(t, "browse")

	assert.EqualError(t, err, "browser error: tty lost")
}
