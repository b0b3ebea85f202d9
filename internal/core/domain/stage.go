package domain

import "time"

// Stage identifies a step of the ebook lifecycle or a granular operation on it.
type Stage string

// Lifecycle stages.
const (
	StageDraft     Stage = "draft"
	StageCreated   Stage = "created"
	StageTOCReady  Stage = "toc_ready"
	StageCompleted Stage = "completed"
)

// Pipeline operations.
const (
	StageCreate          Stage = "create"
	StageGenerateTOC     Stage = "generate_toc"
	StageSaveTOC         Stage = "save_toc"
	StageGenerateContent Stage = "generate_content"
)

// Enrichment stages. Each is independent and re-invocable.
const (
	StageCover         Stage = "cover"
	StageLegalPages    Stage = "legal_pages"
	StageVisualTheme   Stage = "visual_theme"
	StageIllustrations Stage = "illustrations"
)

// Asset mutations and export.
const (
	StageEditChapter       Stage = "edit_chapter"
	StageRegenerateChapter Stage = "regenerate_chapter"
	StageRegenerateImage   Stage = "regenerate_image"
	StageUploadImage       Stage = "upload_image"
	StageExport            Stage = "export"
)

// Reads.
const (
	StageRefresh Stage = "refresh"
	StageList    Stage = "list"
)

// EnrichmentStages lists the enrichment stages in display order.
func EnrichmentStages() []Stage {
	return []Stage{StageCover, StageLegalPages, StageVisualTheme, StageIllustrations}
}

// IsEnrichment returns true for cover, legal pages, visual theme and illustrations.
func (s Stage) IsEnrichment() bool {
	switch s {
	case StageCover, StageLegalPages, StageVisualTheme, StageIllustrations:
		return true
	default:
		return false
	}
}

// FailureMessage is the generic message shown when a stage fails without detail.
func (s Stage) FailureMessage() string {
	switch s {
	case StageCreate:
		return "Could not create the ebook"
	case StageGenerateTOC:
		return "Table of contents generation failed"
	case StageSaveTOC:
		return "Could not save the table of contents"
	case StageGenerateContent:
		return "Content generation failed"
	case StageCover:
		return "Cover generation failed"
	case StageLegalPages:
		return "Legal pages generation failed"
	case StageVisualTheme:
		return "Visual theme generation failed"
	case StageIllustrations:
		return "Illustration generation failed"
	case StageEditChapter:
		return "Could not save the chapter"
	case StageRegenerateChapter:
		return "Chapter regeneration failed"
	case StageRegenerateImage:
		return "Image regeneration failed"
	case StageUploadImage:
		return "Image upload failed"
	case StageExport:
		return "Export failed"
	case StageRefresh:
		return "Could not load the ebook"
	case StageList:
		return "Could not load your ebooks"
	default:
		return GenericErrorMessage
	}
}

// Label is a short human-readable name.
func (s Stage) Label() string {
	switch s {
	case StageCreate:
		return "Create ebook"
	case StageGenerateTOC:
		return "Table of contents"
	case StageSaveTOC:
		return "Save table of contents"
	case StageGenerateContent:
		return "Chapters"
	case StageCover:
		return "Cover"
	case StageLegalPages:
		return "Legal pages"
	case StageVisualTheme:
		return "Visual theme"
	case StageIllustrations:
		return "Illustrations"
	default:
		return string(s)
	}
}

// EventKind describes what happened to a stage.
type EventKind string

// Stage event kinds.
const (
	EventStarted   EventKind = "started"
	EventSucceeded EventKind = "succeeded"
	EventFailed    EventKind = "failed"
)

// StageEvent is published whenever a stage starts or finishes.
type StageEvent struct {
	ID      string
	EbookID string
	Stage   Stage
	Kind    EventKind
	Message string
	At      time.Time
}
