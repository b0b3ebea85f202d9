// Package messages defines the messages exchanged between the browser views.
package messages

import (
	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// ViewType identifies a browser view.
type ViewType int

const (
	// ViewEbooks lists the user's ebooks.
	ViewEbooks ViewType = iota
	// ViewEbook shows one ebook with its chapters and assets.
	ViewEbook
	// ViewChapter reads one chapter.
	ViewChapter
)

// String returns the view name.
func (v ViewType) String() string {
	switch v {
	case ViewEbooks:
		return "ebooks"
	case ViewEbook:
		return "ebook"
	case ViewChapter:
		return "chapter"
	default:
		return "unknown"
	}
}

// ViewChanged requests navigation to another view.
type ViewChanged struct {
	View ViewType
}

// EbooksLoaded carries the result of listing ebooks.
type EbooksLoaded struct {
	Summaries []domain.Summary
	Err       error
}

// EbookSelected is sent when an ebook is picked from the list.
type EbookSelected struct {
	ID string
}

// EbookLoaded carries a fresh snapshot of one ebook.
type EbookLoaded struct {
	EbookID string
	Ebook   *domain.Ebook
	Err     error
}

// ChapterSelected is sent when a chapter is opened for reading.
type ChapterSelected struct {
	Chapter domain.Chapter
}

// ActionFinished reports an action run from the browser. Ebook is the
// snapshot the action worked on and is set even when Err is not nil.
type ActionFinished struct {
	EbookID string
	Action  string
	Ebook   *domain.Ebook
	Err     error
}

// ErrorOccurred reports an error to the active view.
type ErrorOccurred struct {
	Err error
}

// Quit requests application exit.
type Quit struct{}
