// Package chapter provides the chapter reader view of the browser.
package chapter

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/ebookctl/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// View is a scrollable chapter reader.
type View struct {
	styles *styles.Styles

	chapter      *domain.Chapter
	lines        []string
	scrollOffset int
	width        int
	height       int
}

// NewView creates a new chapter reader.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		width:  80,
		height: 24,
	}
}

// SetChapter shows chapter from its first line.
func (v *View) SetChapter(chapter domain.Chapter) {
	v.chapter = &chapter
	v.scrollOffset = 0
	v.wrapContent()
}

// Update handles messages for the chapter reader.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		return v.handleKeyMsg(msg)
	}
	return v, nil
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset = max(v.scrollOffset-v.visibleLines(), 0)
	case "pgdown", "ctrl+d", " ":
		v.scrollOffset = min(v.scrollOffset+v.visibleLines(), v.maxScrollOffset())
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "esc", "q":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewEbook}
		}
	}

	return v, nil
}

// wrapContent word-wraps the chapter to the view width.
func (v *View) wrapContent() {
	if v.chapter == nil || strings.TrimSpace(v.chapter.Content) == "" {
		v.lines = nil
		return
	}

	contentWidth := max(v.width-4, 20)
	wrapped := lipgloss.NewStyle().Width(contentWidth).Render(v.chapter.Content)
	v.lines = strings.Split(wrapped, "\n")
	v.scrollOffset = min(v.scrollOffset, v.maxScrollOffset())
}

func (v *View) visibleLines() int {
	// title, separator, position indicator, help
	return max(v.height-7, 1)
}

func (v *View) maxScrollOffset() int {
	return max(len(v.lines)-v.visibleLines(), 0)
}

// View renders the chapter.
func (v *View) View() string {
	var b strings.Builder

	title := "Chapter"
	if v.chapter != nil {
		title = fmt.Sprintf("Chapter %d: %s", v.chapter.Number, v.chapter.Title)
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(v.styles.Muted.Render(strings.Repeat("─", min(max(v.width-4, 1), 60))))
	b.WriteString("\n")

	if len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("(No content)"))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
		b.WriteString(v.styles.Normal.Render(v.lines[i]))
		b.WriteString("\n")
	}

	if len(v.lines) > visible {
		percentage := 0
		if m := v.maxScrollOffset(); m > 0 {
			percentage = v.scrollOffset * 100 / m
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage,
			v.scrollOffset+1,
			min(v.scrollOffset+visible, len(v.lines)),
			len(v.lines))))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [esc] back")
}

// SetDimensions sets the view dimensions and rewraps the chapter.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.wrapContent()
}

// Chapter returns the chapter being read.
func (v *View) Chapter() *domain.Chapter {
	return v.chapter
}

// Lines returns the wrapped content lines.
func (v *View) Lines() []string {
	return v.lines
}

// ScrollOffset returns the first visible line.
func (v *View) ScrollOffset() int {
	return v.scrollOffset
}
