package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Ebook status values as reported by the remote service.
const (
	StatusDraft     = "draft"
	StatusCompleted = "completed"
)

// Spec values accepted by the remote service.
const (
	MinChapters = 1
	MaxChapters = 50
)

// Spec is the user's description of the ebook to generate.
type Spec struct {
	Author         string   `json:"author" toml:"author" yaml:"author"`
	Title          string   `json:"title" toml:"title" yaml:"title"`
	Tone           string   `json:"tone" toml:"tone" yaml:"tone"`
	TargetAudience []string `json:"target_audience" toml:"target_audience" yaml:"target_audience"`
	Description    string   `json:"description" toml:"description" yaml:"description"`
	ChaptersCount  int      `json:"chapters_count" toml:"chapters_count" yaml:"chapters_count"`
	Length         string   `json:"length" toml:"length" yaml:"length"`
}

// Validate checks the fields the remote service requires.
// Content is not checked semantically.
func (s Spec) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(s.Author) == "" {
		missing = append(missing, "author")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalidInput, strings.Join(missing, ", "))
	}
	if s.ChaptersCount < MinChapters || s.ChaptersCount > MaxChapters {
		return fmt.Errorf("%w: chapters_count must be between %d and %d", ErrInvalidInput, MinChapters, MaxChapters)
	}
	return nil
}

// Chapter types used in the table of contents.
const (
	ChapterTypeIntroduction = "introduction"
	ChapterTypeChapter      = "chapter"
	ChapterTypeConclusion   = "conclusion"
)

// TOCEntry is one planned chapter of the table of contents.
type TOCEntry struct {
	Number      int      `json:"number"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Type        string   `json:"type,omitempty"`
	Subtitles   []string `json:"subtitles,omitempty"`
}

// Chapter is a generated chapter. Number is stable once assigned.
type Chapter struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type,omitempty"`
	Content     string `json:"content"`
	GeneratedAt string `json:"generated_at,omitempty"`
}

// Ebook is the client's view of a document owned by the remote service.
// Artifacts are nil until generated; nil means "not yet generated".
type Ebook struct {
	ID     string `json:"_id"`
	UserID string `json:"user_id,omitempty"`
	Spec

	Status    string     `json:"status"`
	TOC       []TOCEntry `json:"toc"`
	Chapters  []Chapter  `json:"chapters"`
	CreatedAt string     `json:"created_at,omitempty"`

	Cover         *Cover            `json:"cover,omitempty"`
	LegalPages    *LegalPages       `json:"legal_pages,omitempty"`
	VisualTheme   *VisualTheme      `json:"visual_theme,omitempty"`
	Illustrations []IllustrationSet `json:"illustrations,omitempty"`

	// TOCSaved is true once the current TOC has been acknowledged by save-toc.
	TOCSaved bool `json:"-"`
}

// Stage returns the lifecycle stage the ebook is at.
func (e *Ebook) Stage() Stage {
	switch {
	case e.ID == "":
		return StageDraft
	case len(e.Chapters) > 0:
		return StageCompleted
	case len(e.TOC) > 0:
		return StageTOCReady
	default:
		return StageCreated
	}
}

// HasChapters returns true if content has been generated.
func (e *Ebook) HasChapters() bool {
	return len(e.Chapters) > 0
}

// Chapter returns the chapter with the given number, or nil.
func (e *Ebook) Chapter(number int) *Chapter {
	for i := range e.Chapters {
		if e.Chapters[i].Number == number {
			return &e.Chapters[i]
		}
	}
	return nil
}

// SetTOC stores a freshly generated, unsaved table of contents.
func (e *Ebook) SetTOC(toc []TOCEntry) {
	e.TOC = slices.Clone(toc)
	e.TOCSaved = false
}

// SetChapters stores generated content and marks the ebook completed.
func (e *Ebook) SetChapters(chapters []Chapter) {
	e.Chapters = slices.Clone(chapters)
	e.Status = StatusCompleted
}

// ReplaceChapterContent swaps the content of one chapter in place.
func (e *Ebook) ReplaceChapterContent(number int, content string) error {
	ch := e.Chapter(number)
	if ch == nil {
		return fmt.Errorf("chapter %d: %w", number, ErrNotFound)
	}
	ch.Content = content
	return nil
}

// IllustrationSet returns the illustration set of a chapter, or nil.
func (e *Ebook) IllustrationSet(chapterNumber int) *IllustrationSet {
	for i := range e.Illustrations {
		if e.Illustrations[i].ChapterNumber == chapterNumber {
			return &e.Illustrations[i]
		}
	}
	return nil
}

// ReplaceImage swaps exactly the image at (chapterNumber, index).
func (e *Ebook) ReplaceImage(chapterNumber, index int, img Image) error {
	set := e.IllustrationSet(chapterNumber)
	if set == nil {
		return fmt.Errorf("illustrations for chapter %d: %w", chapterNumber, ErrNotFound)
	}
	if index < 0 || index >= len(set.Images) {
		return fmt.Errorf("image %d of chapter %d: %w", index, chapterNumber, ErrNotFound)
	}
	img.Index = index
	set.Images[index] = img
	return nil
}

// Summary is the list view of an ebook.
type Summary struct {
	ID           string
	Title        string
	Author       string
	Status       string
	ChapterCount int
	CreatedAt    string
}

// Summarize builds the list view of e.
func (e *Ebook) Summarize() Summary {
	return Summary{
		ID:           e.ID,
		Title:        e.Title,
		Author:       e.Author,
		Status:       e.Status,
		ChapterCount: len(e.Chapters),
		CreatedAt:    e.CreatedAt,
	}
}
