// Package styles provides the colour theme for progress output and the ebook browser.
package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// Theme defines the colour palette.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"), // Purple
		Secondary:  lipgloss.Color("#06B6D4"), // Cyan
		Foreground: lipgloss.Color("#CDD6F4"), // Light gray
		Muted:      lipgloss.Color("#6C7086"), // Medium gray
		Success:    lipgloss.Color("#A6E3A1"), // Green
		Warning:    lipgloss.Color("#F9E2AF"), // Yellow
		Error:      lipgloss.Color("#F38BA8"), // Red
		Border:     lipgloss.Color("#45475A"), // Border gray
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title is the header above the stage list.
	Title lipgloss.Style

	// Stage is a stage label.
	Stage lipgloss.Style

	// Running colours the spinner of a pending stage.
	Running lipgloss.Style

	Succeeded lipgloss.Style
	Failed    lipgloss.Style

	// Muted is for elapsed times and hints.
	Muted lipgloss.Style

	// Detail is the indented failure message under a stage.
	Detail lipgloss.Style

	// Box frames the final summary.
	Box lipgloss.Style

	// Subtitle heads a section of a browser view.
	Subtitle lipgloss.Style

	// Normal is unselected list text.
	Normal lipgloss.Style

	// Selected highlights the cursor row.
	Selected lipgloss.Style

	// Help is the key hint footer.
	Help lipgloss.Style

	Error lipgloss.Style

	StatusBar lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary).
			MarginBottom(1),

		Stage: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Running: lipgloss.NewStyle().
			Foreground(theme.Secondary),

		Succeeded: lipgloss.NewStyle().
			Foreground(theme.Success),

		Failed: lipgloss.NewStyle().
			Foreground(theme.Error),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Detail: lipgloss.NewStyle().
			Foreground(theme.Warning).
			PaddingLeft(4),

		Box: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		Subtitle: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		Normal: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Selected: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Help: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Error: lipgloss.NewStyle().
			Foreground(theme.Error).
			Bold(true),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Background(theme.Border).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}

// Marker renders the status glyph of a settled stage.
func (s *Styles) Marker(kind domain.EventKind) string {
	switch kind {
	case domain.EventSucceeded:
		return s.Succeeded.Render("✓")
	case domain.EventFailed:
		return s.Failed.Render("✗")
	default:
		return s.Muted.Render("•")
	}
}
