// Package progress renders live stage progress of pipeline commands.
package progress

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// EventMsg delivers a stage event to the model.
type EventMsg domain.StageEvent

// DoneMsg reports that the work has returned.
type DoneMsg struct {
	Err error
}

// stageLine is one row of the view.
type stageLine struct {
	stage   domain.Stage
	kind    domain.EventKind
	message string
	started time.Time
	elapsed time.Duration
}

// Model is the bubbletea model of a progress view.
type Model struct {
	title     string
	styles    *styles.Styles
	spinner   spinner.Model
	lines     []stageLine
	done      bool
	cancelled bool
	err       error
}

// New creates a progress model with the given header.
func New(title string) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	st := styles.DefaultStyles()
	s.Style = st.Running

	return Model{
		title:   title,
		styles:  st,
		spinner: s,
	}
}

// Init starts the spinner.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EventMsg:
		m.apply(domain.StageEvent(msg))
		return m, nil

	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancelled = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

// apply records event against its stage row. A re-run stage reuses its row.
func (m *Model) apply(event domain.StageEvent) {
	for i := range m.lines {
		if m.lines[i].stage != event.Stage {
			continue
		}
		line := &m.lines[i]
		line.kind = event.Kind
		line.message = event.Message
		if event.Kind == domain.EventStarted {
			line.started = event.At
			line.elapsed = 0
		} else {
			line.elapsed = event.At.Sub(line.started)
		}
		return
	}
	m.lines = append(m.lines, stageLine{
		stage:   event.Stage,
		kind:    event.Kind,
		message: event.Message,
		started: event.At,
	})
}

// View renders the stage list.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	b.WriteString("\n")

	for _, line := range m.lines {
		marker := m.styles.Marker(line.kind)
		if line.kind == domain.EventStarted {
			marker = m.spinner.View()
		}
		fmt.Fprintf(&b, "%s %s", marker, m.styles.Stage.Render(line.stage.Label()))
		if line.kind != domain.EventStarted && line.elapsed > 0 {
			b.WriteString(" ")
			b.WriteString(m.styles.Muted.Render(line.elapsed.Round(100 * time.Millisecond).String()))
		}
		b.WriteString("\n")
		if line.kind == domain.EventFailed && line.message != "" {
			b.WriteString(m.styles.Detail.Render(line.message))
			b.WriteString("\n")
		}
	}

	if m.cancelled {
		b.WriteString(m.styles.Muted.Render("Cancelled"))
		b.WriteString("\n")
	}
	return b.String()
}

// Cancelled returns true if the user interrupted the view.
func (m Model) Cancelled() bool {
	return m.cancelled
}

// Err returns the error the work finished with.
func (m Model) Err() error {
	return m.err
}
