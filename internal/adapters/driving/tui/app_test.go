package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	app, err := NewApp(newTestPorts())
	require.NoError(t, err)
	app.SetDimensions(100, 30)
	return app
}

// step feeds msg to the app and returns the command it produced.
func step(t *testing.T, app *App, msg tea.Msg) tea.Cmd {
	t.Helper()
	_, cmd := app.Update(msg)
	return cmd
}

func TestNewApp_Success(t *testing.T) {
	app, err := NewApp(newTestPorts())

	require.NoError(t, err)
	assert.Equal(t, messages.ViewEbooks, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
}

func TestNewApp_InvalidPorts(t *testing.T) {
	app, err := NewApp(&Ports{Assets: &mockAssets{}})

	assert.ErrorIs(t, err, ErrMissingPipelineService)
	assert.Nil(t, app)
}

func TestApp_WithContext(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	type contextKey string
	ctx := context.WithValue(context.Background(), contextKey("key"), "value")

	assert.Same(t, app, app.WithContext(ctx))
	assert.Equal(t, "value", app.ctx.Value(contextKey("key")))
}

func TestApp_Init(t *testing.T) {
	app := newTestApp(t)

	cmd := app.Init()

	assert.NotNil(t, cmd)
	assert.Equal(t, status.StateLoading, app.StatusBar().State())
}

func TestApp_WindowSize(t *testing.T) {
	app, _ := NewApp(newTestPorts())

	step(t, app, tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.True(t, app.Ready())
	assert.Equal(t, 120, app.width)
	assert.Equal(t, 40, app.height)
}

func TestApp_EbooksLoaded(t *testing.T) {
	app := newTestApp(t)

	step(t, app, messages.EbooksLoaded{Summaries: []domain.Summary{{ID: "e1", Title: "Gardening"}}})

	assert.Equal(t, status.StateReady, app.StatusBar().State())
	assert.Contains(t, app.View(), "Gardening")
	assert.Contains(t, app.View(), "1 ebooks")
}

func TestApp_EbooksLoadedError(t *testing.T) {
	app := newTestApp(t)

	step(t, app, messages.EbooksLoaded{Err: errors.New("offline")})

	assert.Equal(t, status.StateError, app.StatusBar().State())
	assert.Error(t, app.Err())
}

func TestApp_OpenEbookAndReadChapter(t *testing.T) {
	app := newTestApp(t)
	step(t, app, messages.EbooksLoaded{Summaries: []domain.Summary{{ID: "e1", Title: "Gardening"}}})

	cmd := step(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	cmd = step(t, app, cmd())
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewEbook, app.CurrentView())
	assert.Equal(t, status.StateLoading, app.StatusBar().State())

	step(t, app, cmd())
	assert.Equal(t, status.StateReady, app.StatusBar().State())
	assert.Contains(t, app.View(), "Chapters (1)")

	step(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	cmd = step(t, app, tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	step(t, app, cmd())

	assert.Equal(t, messages.ViewChapter, app.CurrentView())
	assert.Contains(t, app.View(), "plant them")

	cmd = step(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	step(t, app, cmd())
	assert.Equal(t, messages.ViewEbook, app.CurrentView())

	cmd = step(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	step(t, app, cmd())
	assert.Equal(t, messages.ViewEbooks, app.CurrentView())
}

func TestApp_EnrichUpdatesStatusBar(t *testing.T) {
	app := newTestApp(t)
	step(t, app, app.ebookView.SetEbook("e1")())
	step(t, app, messages.ViewChanged{View: messages.ViewEbook})

	cmd := step(t, app, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	require.NotNil(t, cmd)
	assert.Equal(t, status.StateRunning, app.StatusBar().State())
	assert.Equal(t, "Enriching", app.StatusBar().Message())

	finished := messages.ActionFinished{EbookID: "e1", Action: "Enriching", Ebook: &domain.Ebook{ID: "e1", Spec: domain.Spec{Title: "Gardening"}}}
	next := step(t, app, finished)

	assert.NotNil(t, next)
	assert.Equal(t, status.StateReady, app.StatusBar().State())
	assert.Equal(t, "Enriching done", app.StatusBar().Message())
}

func TestApp_ActionFailure(t *testing.T) {
	app := newTestApp(t)
	step(t, app, messages.ViewChanged{View: messages.ViewEbook})

	failure := &domain.StageError{Stage: domain.StageCover, Message: domain.StageCover.FailureMessage()}
	step(t, app, messages.ActionFinished{Action: "Enriching", Err: failure})

	assert.Equal(t, status.StateError, app.StatusBar().State())
	assert.Equal(t, domain.StageCover.FailureMessage(), app.StatusBar().Message())
}

func TestApp_ErrorOccurred(t *testing.T) {
	app := newTestApp(t)

	step(t, app, messages.ErrorOccurred{Err: errors.New("boom")})

	assert.EqualError(t, app.Err(), "boom")
	assert.Equal(t, status.StateError, app.StatusBar().State())
}

func TestApp_Quit(t *testing.T) {
	app := newTestApp(t)

	cmd := step(t, app, messages.Quit{})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())

	cmd = step(t, app, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
