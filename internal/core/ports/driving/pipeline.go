package driving

import (
	"context"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// StageObserver receives stage events as they happen.
type StageObserver func(event domain.StageEvent)

// StageObservable publishes its stage events to one observer.
// A nil observer stops publication.
type StageObservable interface {
	SetObserver(observer StageObserver)
}

// PipelineService drives an ebook through its generation stages.
// Every method merges its result into the ebook it is given.
type PipelineService interface {
	// Create registers a new ebook for spec.
	Create(ctx context.Context, spec domain.Spec) (*domain.Ebook, error)

	// GenerateTOC generates an unsaved table of contents for ebook.
	GenerateTOC(ctx context.Context, ebook *domain.Ebook) error

	// SaveTOC persists the ebook's table of contents.
	SaveTOC(ctx context.Context, ebook *domain.Ebook) error

	// GenerateContent writes the chapters of a saved table of contents.
	GenerateContent(ctx context.Context, ebook *domain.Ebook) error

	// Complete runs SaveTOC then GenerateContent.
	Complete(ctx context.Context, ebook *domain.Ebook) error

	// GenerateCover generates or replaces the cover.
	GenerateCover(ctx context.Context, ebook *domain.Ebook) error

	// GenerateLegalPages generates or replaces the legal pages.
	GenerateLegalPages(ctx context.Context, ebook *domain.Ebook, opts domain.LegalOptions) error

	// GenerateVisualTheme generates or replaces the visual theme.
	GenerateVisualTheme(ctx context.Context, ebook *domain.Ebook) error

	// GenerateIllustrations generates or replaces the illustrations.
	GenerateIllustrations(ctx context.Context, ebook *domain.Ebook) error

	// EnrichAll runs every enrichment stage concurrently.
	EnrichAll(ctx context.Context, ebook *domain.Ebook, opts domain.LegalOptions) error

	// Enrich runs the given enrichment stages concurrently. Each success is
	// merged even when a sibling fails.
	Enrich(ctx context.Context, ebook *domain.Ebook, stages []domain.Stage, opts domain.LegalOptions) error

	// Refresh fetches a full snapshot of an ebook.
	Refresh(ctx context.Context, ebookID string) (*domain.Ebook, error)

	// List returns summaries of the user's ebooks.
	List(ctx context.Context) ([]domain.Summary, error)

	// History returns journaled stage events, newest first.
	History(ctx context.Context, ebookID string, limit int) ([]domain.StageEvent, error)
}
