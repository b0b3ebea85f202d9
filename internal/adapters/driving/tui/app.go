package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/views/chapter"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/views/ebook"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/views/ebooks"
	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// App is the browser application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles *styles.Styles

	ebooksView  *ebooks.View
	ebookView   *ebook.View
	chapterView *chapter.View
	statusBar   *status.Bar

	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	width  int
	height int
	ready  bool
}

var _ tea.Model = (*App)(nil)

// NewApp creates a new browser over the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	return &App{
		ports:       ports,
		ctx:         context.Background(),
		styles:      s,
		ebooksView:  ebooks.NewView(s, ports.Pipeline),
		ebookView:   ebook.NewView(s, ports.Pipeline, ports.Assets, ports.Legal),
		chapterView: chapter.NewView(s),
		statusBar:   status.NewBar(s, keymap.DefaultKeyMap()),
		currentView: messages.ViewEbooks,
	}, nil
}

// WithContext sets the context used by every service call.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.ebooksView.WithContext(ctx)
	a.ebookView.WithContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	a.statusBar.SetState(status.StateLoading, "")
	return tea.Batch(
		tea.SetWindowTitle("ebookctl"),
		a.ebooksView.Init(),
	)
}

// Update implements tea.Model.
//
//nolint:gocyclo // central message handler
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.currentView {
		case messages.ViewEbooks:
			a.ebooksView, cmd = a.ebooksView.Update(msg)
			if a.ebooksView.Loading() {
				a.statusBar.SetState(status.StateLoading, "")
			}
		case messages.ViewEbook:
			a.ebookView, cmd = a.ebookView.Update(msg)
			if busy := a.ebookView.Busy(); busy != "" {
				a.statusBar.SetState(status.StateRunning, busy)
			} else if a.ebookView.Loading() {
				a.statusBar.SetState(status.StateLoading, "")
			}
		case messages.ViewChapter:
			a.chapterView, cmd = a.chapterView.Update(msg)
		}
		return a, cmd

	case messages.ViewChanged:
		a.currentView = msg.View
		a.statusBar.SetEbookOpen(msg.View == messages.ViewEbook)
		return a, nil

	case messages.EbooksLoaded:
		a.ebooksView, cmd = a.ebooksView.Update(msg)
		a.statusBar.SetEbookCount(len(a.ebooksView.Summaries()))
		if msg.Err != nil || a.currentView == messages.ViewEbooks {
			a.settle(msg.Err, "")
		}
		return a, cmd

	case messages.EbookSelected:
		a.currentView = messages.ViewEbook
		a.statusBar.SetEbookOpen(true)
		a.statusBar.SetState(status.StateLoading, "")
		return a, a.ebookView.SetEbook(msg.ID)

	case messages.EbookLoaded:
		a.ebookView, cmd = a.ebookView.Update(msg)
		a.settle(msg.Err, "")
		return a, cmd

	case messages.ChapterSelected:
		a.currentView = messages.ViewChapter
		a.statusBar.SetEbookOpen(false)
		a.chapterView.SetChapter(msg.Chapter)
		return a, nil

	case messages.ActionFinished:
		a.ebookView, cmd = a.ebookView.Update(msg)
		a.settle(msg.Err, msg.Action+" done")
		if msg.Err == nil {
			// summaries carry chapter counts and status
			return a, tea.Batch(cmd, a.ebooksView.Reload())
		}
		return a, cmd

	case messages.ErrorOccurred:
		a.settle(msg.Err, "")
		switch a.currentView {
		case messages.ViewEbooks:
			a.ebooksView, cmd = a.ebooksView.Update(msg)
		case messages.ViewEbook:
			a.ebookView, cmd = a.ebookView.Update(msg)
		case messages.ViewChapter:
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, nil
}

// settle moves the status bar out of a loading or running state.
func (a *App) settle(err error, message string) {
	a.err = err
	if err != nil {
		a.statusBar.SetState(status.StateError, domain.UserMessage(err))
		return
	}
	a.statusBar.SetState(status.StateReady, message)
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	var body string
	switch a.currentView {
	case messages.ViewEbook:
		body = a.ebookView.View()
	case messages.ViewChapter:
		body = a.chapterView.View()
	default:
		body = a.ebooksView.View()
	}
	return body + "\n" + a.statusBar.View()
}

// Run starts the browser and blocks until it exits or the app context is
// cancelled.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// StatusBar returns the status bar.
func (a *App) StatusBar() *status.Bar {
	return a.statusBar
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the terminal size is known.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions. One line is kept for the
// status bar.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	viewHeight := max(height-1, 1)
	a.ebooksView.SetDimensions(width, viewHeight)
	a.ebookView.SetDimensions(width, viewHeight)
	a.chapterView.SetDimensions(width, viewHeight)
	a.statusBar.SetWidth(width)
}
