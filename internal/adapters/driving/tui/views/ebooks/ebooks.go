// Package ebooks provides the ebook list view of the browser.
package ebooks

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
)

var errNoPipeline = errors.New("pipeline service not available")

// View is the ebook list view.
type View struct {
	styles   *styles.Styles
	pipeline driving.PipelineService
	ctx      context.Context

	summaries    []domain.Summary
	selected     int
	scrollOffset int
	width        int
	height       int
	loading      bool
	err          error
}

// NewView creates a new ebook list view.
func NewView(s *styles.Styles, pipeline driving.PipelineService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		pipeline: pipeline,
		ctx:      context.Background(),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context used by service calls.
func (v *View) WithContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the ebook list.
func (v *View) Init() tea.Cmd {
	return v.Reload()
}

// Reload marks the view as loading and returns a command listing ebooks.
func (v *View) Reload() tea.Cmd {
	v.loading = true
	pipeline, ctx := v.pipeline, v.ctx
	return func() tea.Msg {
		if pipeline == nil {
			return messages.EbooksLoaded{Err: errNoPipeline}
		}
		summaries, err := pipeline.List(ctx)
		return messages.EbooksLoaded{Summaries: summaries, Err: err}
	}
}

// Update handles messages for the ebook list view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.EbooksLoaded:
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.summaries = msg.Summaries
			if v.selected >= len(v.summaries) {
				v.selected = max(len(v.summaries)-1, 0)
			}
			v.adjustScroll()
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.summaries)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if summary := v.SelectedSummary(); summary != nil {
			id := summary.ID
			return v, func() tea.Msg {
				return messages.EbookSelected{ID: id}
			}
		}
	case "r":
		return v, v.Reload()
	case "q", "esc":
		return v, func() tea.Msg {
			return messages.Quit{}
		}
	}

	return v, nil
}

func (v *View) adjustScroll() {
	visible := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visible {
		v.scrollOffset = v.selected - visible + 1
	}
}

func (v *View) visibleItemCount() int {
	// title, blank, scroll indicator, help
	return max(v.height-7, 1)
}

// View renders the ebook list.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Ebooks (%d)", len(v.summaries))))
	b.WriteString("\n")

	switch {
	case v.loading:
		b.WriteString(v.styles.Muted.Render("Loading ebooks..."))
	case v.err != nil:
		b.WriteString(v.styles.Error.Render("Error: " + domain.UserMessage(v.err)))
	case len(v.summaries) == 0:
		b.WriteString(v.styles.Muted.Render("No ebooks yet. Create one with `ebookctl ebook create`."))
	default:
		visible := v.visibleItemCount()
		for i := v.scrollOffset; i < len(v.summaries) && i < v.scrollOffset+visible; i++ {
			b.WriteString(v.renderSummary(i, &v.summaries[i]))
			b.WriteString("\n")
		}
		if len(v.summaries) > visible {
			b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
				v.scrollOffset+1,
				min(v.scrollOffset+visible, len(v.summaries)),
				len(v.summaries))))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] open  [r] reload  [q] quit"))

	return b.String()
}

func (v *View) renderSummary(index int, summary *domain.Summary) string {
	indicator := "  "
	if index == v.selected {
		indicator = "> "
	}

	title := summary.Title
	if title == "" {
		title = summary.ID
	}
	titleWidth := max(v.width/2-4, 10)
	title = truncate(title, titleWidth)
	detail := fmt.Sprintf("%-9s %2d chapters", summary.Status, summary.ChapterCount)

	if index == v.selected {
		return v.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, titleWidth, title, detail))
	}
	return v.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, titleWidth, title)) +
		v.styles.Muted.Render(detail)
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:width-3]) + "..."
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.adjustScroll()
}

// Summaries returns the listed ebooks.
func (v *View) Summaries() []domain.Summary {
	return v.summaries
}

// SelectedSummary returns the ebook under the cursor.
func (v *View) SelectedSummary() *domain.Summary {
	if v.selected < len(v.summaries) {
		return &v.summaries[v.selected]
	}
	return nil
}

// Loading reports whether a list request is pending.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
