// Package ebook provides the single ebook view of the browser: its assets,
// its chapters and the actions that can be run on them.
package ebook

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

// ActionOption is an entry of the chapter action menu.
type ActionOption int

const (
	ActionRead ActionOption = iota
	ActionRegenerate
	ActionCancel
)

// View shows one ebook.
type View struct {
	styles   *styles.Styles
	pipeline driving.PipelineService
	assets   driving.AssetService
	legal    domain.LegalOptions
	ctx      context.Context

	ebookID      string
	ebook        *domain.Ebook
	selected     int
	scrollOffset int
	width        int
	height       int
	loading      bool
	busy         string
	err          error
	showingMenu  bool
	menuSelected ActionOption
}

// NewView creates a new ebook view.
func NewView(
	s *styles.Styles,
	pipeline driving.PipelineService,
	assets driving.AssetService,
	legal domain.LegalOptions,
) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:   s,
		pipeline: pipeline,
		assets:   assets,
		legal:    legal,
		ctx:      context.Background(),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context used by service calls.
func (v *View) WithContext(ctx context.Context) {
	v.ctx = ctx
}

// SetEbook resets the view to ebookID and loads it.
func (v *View) SetEbook(ebookID string) tea.Cmd {
	v.ebookID = ebookID
	v.ebook = nil
	v.selected = 0
	v.scrollOffset = 0
	v.err = nil
	v.busy = ""
	v.showingMenu = false
	return v.Reload()
}

// Reload returns a command fetching a fresh snapshot of the ebook.
func (v *View) Reload() tea.Cmd {
	v.loading = true
	pipeline, ctx, id := v.pipeline, v.ctx, v.ebookID
	return func() tea.Msg {
		if pipeline == nil {
			return messages.EbookLoaded{EbookID: id, Err: errNoPipeline}
		}
		ebook, err := pipeline.Refresh(ctx, id)
		return messages.EbookLoaded{EbookID: id, Ebook: ebook, Err: err}
	}
}

// runAction applies fn to a freshly fetched snapshot so the rendered ebook
// is never mutated outside Update. Results for an ebook that is no longer
// shown are dropped.
func (v *View) runAction(label string, fn func(ctx context.Context, ebook *domain.Ebook) error) tea.Cmd {
	v.busy = label
	v.err = nil
	pipeline, ctx, id := v.pipeline, v.ctx, v.ebookID
	return func() tea.Msg {
		if pipeline == nil {
			return messages.ActionFinished{EbookID: id, Action: label, Err: errNoPipeline}
		}
		fresh, err := pipeline.Refresh(ctx, id)
		if err != nil {
			return messages.ActionFinished{EbookID: id, Action: label, Err: err}
		}
		err = fn(ctx, fresh)
		return messages.ActionFinished{EbookID: id, Action: label, Ebook: fresh, Err: err}
	}
}

// Update handles messages for the ebook view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.showingMenu {
			return v.handleMenuKeyMsg(msg)
		}
		return v.handleKeyMsg(msg)

	case messages.EbookLoaded:
		if msg.EbookID != v.ebookID {
			return v, nil
		}
		v.loading = false
		v.err = msg.Err
		if msg.Err == nil {
			v.setSnapshot(msg.Ebook)
		}
		return v, nil

	case messages.ActionFinished:
		if msg.EbookID != v.ebookID {
			return v, nil
		}
		v.busy = ""
		v.err = msg.Err
		if msg.Ebook != nil {
			v.setSnapshot(msg.Ebook)
		}
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

func (v *View) setSnapshot(ebook *domain.Ebook) {
	v.ebook = ebook
	if n := v.rowCount(); v.selected >= n {
		v.selected = max(n-1, 0)
	}
	v.adjustScroll()
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < v.rowCount()-1 {
			v.selected++
			v.adjustScroll()
		}
	case "enter":
		if v.SelectedChapter() != nil {
			v.showingMenu = true
			v.menuSelected = ActionRead
		}
	case "e":
		if v.ebook != nil && v.busy == "" {
			return v, v.enrich()
		}
	case "r":
		if v.busy == "" {
			return v, v.Reload()
		}
	case "esc":
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewEbooks}
		}
	}

	return v, nil
}

func (v *View) handleMenuKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.menuSelected > ActionRead {
			v.menuSelected--
		}
	case "down", "j":
		if v.menuSelected < ActionCancel {
			v.menuSelected++
		}
	case "enter":
		return v.handleMenuSelect()
	case "esc":
		v.showingMenu = false
	}

	return v, nil
}

func (v *View) handleMenuSelect() (*View, tea.Cmd) {
	v.showingMenu = false
	chapter := v.SelectedChapter()
	if chapter == nil {
		return v, nil
	}

	switch v.menuSelected {
	case ActionRead:
		selected := *chapter
		return v, func() tea.Msg {
			return messages.ChapterSelected{Chapter: selected}
		}
	case ActionRegenerate:
		if v.busy != "" || v.assets == nil {
			return v, nil
		}
		number, assets := chapter.Number, v.assets
		return v, v.runAction(fmt.Sprintf("Regenerating chapter %d", number),
			func(ctx context.Context, ebook *domain.Ebook) error {
				return assets.RegenerateChapter(ctx, ebook, number)
			})
	case ActionCancel:
	}

	return v, nil
}

func (v *View) enrich() tea.Cmd {
	pipeline, legal := v.pipeline, v.legal
	return v.runAction("Enriching", func(ctx context.Context, ebook *domain.Ebook) error {
		return pipeline.EnrichAll(ctx, ebook, legal)
	})
}

// rowCount is the number of chapters, or of table of contents entries
// when no chapter is written yet.
func (v *View) rowCount() int {
	if v.ebook == nil {
		return 0
	}
	if v.ebook.HasChapters() {
		return len(v.ebook.Chapters)
	}
	return len(v.ebook.TOC)
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
	// header, assets block, section title, help
	return max(v.height-16, 1)
}

// View renders the ebook.
func (v *View) View() string {
	var b strings.Builder

	switch {
	case v.loading:
		b.WriteString(v.styles.Title.Render("Ebook"))
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("Loading ebook..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	case v.ebook == nil:
		b.WriteString(v.styles.Title.Render("Ebook"))
		b.WriteString("\n")
		if v.err != nil {
			b.WriteString(v.styles.Error.Render("Error: " + domain.UserMessage(v.err)))
		} else {
			b.WriteString(v.styles.Muted.Render("No ebook selected."))
		}
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	if v.showingMenu {
		return v.renderActionMenu()
	}

	ebook := v.ebook
	b.WriteString(v.styles.Title.Render(ebook.Title))
	b.WriteString("\n")
	if ebook.Author != "" {
		b.WriteString(v.styles.Muted.Render("by " + ebook.Author))
		b.WriteString("\n")
	}
	b.WriteString(v.renderField("Status", ebook.Status))
	b.WriteString(v.renderField("Stage", string(ebook.Stage())))
	b.WriteString("\n")

	b.WriteString(v.styles.Subtitle.Render("Assets"))
	b.WriteString("\n")
	b.WriteString(v.renderField("Cover", presence(ebook.Cover != nil)))
	b.WriteString(v.renderField("Legal pages", presence(ebook.LegalPages != nil)))
	b.WriteString(v.renderField("Visual theme", presence(ebook.VisualTheme != nil)))
	b.WriteString(v.renderField("Illustrations", fmt.Sprintf("%d images", imageCount(ebook))))
	b.WriteString("\n")

	b.WriteString(v.renderRows())

	if v.busy != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Running.Render(v.busy + "..."))
	} else if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render("Error: " + domain.UserMessage(v.err)))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

func (v *View) renderRows() string {
	var b strings.Builder
	ebook := v.ebook

	var labels []string
	if ebook.HasChapters() {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Chapters (%d)", len(ebook.Chapters))))
		for _, ch := range ebook.Chapters {
			labels = append(labels, fmt.Sprintf("%2d. %s", ch.Number, ch.Title))
		}
	} else {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Table of contents (%d)", len(ebook.TOC))))
		for _, entry := range ebook.TOC {
			labels = append(labels, fmt.Sprintf("%2d. %s", entry.Number, entry.Title))
		}
	}
	b.WriteString("\n")

	if len(labels) == 0 {
		b.WriteString(v.styles.Muted.Render("  Nothing generated yet."))
		b.WriteString("\n")
		return b.String()
	}

	visible := v.visibleItemCount()
	for i := v.scrollOffset; i < len(labels) && i < v.scrollOffset+visible; i++ {
		if i == v.selected {
			b.WriteString(v.styles.Selected.Render("> " + labels[i]))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + labels[i]))
		}
		b.WriteString("\n")
	}
	if len(labels) > visible {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d-%d of %d]",
			v.scrollOffset+1, min(v.scrollOffset+visible, len(labels)), len(labels))))
		b.WriteString("\n")
	}
	return b.String()
}

func (v *View) renderField(label, value string) string {
	return v.styles.Muted.Render(fmt.Sprintf("  %-14s", label+":")) + v.styles.Normal.Render(value) + "\n"
}

func (v *View) renderActionMenu() string {
	var b strings.Builder

	if chapter := v.SelectedChapter(); chapter != nil {
		b.WriteString(v.styles.Subtitle.Render(fmt.Sprintf("Chapter %d: %s", chapter.Number, chapter.Title)))
		b.WriteString("\n\n")
	}

	options := []struct {
		action ActionOption
		label  string
	}{
		{ActionRead, "Read"},
		{ActionRegenerate, "Regenerate"},
		{ActionCancel, "Cancel"},
	}

	for _, opt := range options {
		if v.menuSelected == opt.action {
			b.WriteString(v.styles.Selected.Render("> " + opt.label))
		} else {
			b.WriteString(v.styles.Normal.Render("  " + opt.label))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[↑/↓] navigate  [enter] select  [esc] cancel"))

	return b.String()
}

func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓] navigate  [enter] actions  [e] enrich  [r] reload  [esc] back")
}

func presence(ok bool) string {
	if ok {
		return "yes"
	}
	return "no"
}

func imageCount(ebook *domain.Ebook) int {
	n := 0
	for _, set := range ebook.Illustrations {
		n += len(set.Images)
	}
	return n
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.adjustScroll()
}

// Ebook returns the displayed snapshot.
func (v *View) Ebook() *domain.Ebook {
	return v.ebook
}

// SelectedChapter returns the written chapter under the cursor, or nil
// while only a table of contents exists.
func (v *View) SelectedChapter() *domain.Chapter {
	if v.ebook == nil || !v.ebook.HasChapters() || v.selected >= len(v.ebook.Chapters) {
		return nil
	}
	return &v.ebook.Chapters[v.selected]
}

// Busy returns the label of the running action, or "".
func (v *View) Busy() string {
	return v.busy
}

// IsShowingMenu returns true if the action menu is visible.
func (v *View) IsShowingMenu() bool {
	return v.showingMenu
}

// Loading reports whether a snapshot request is pending.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
