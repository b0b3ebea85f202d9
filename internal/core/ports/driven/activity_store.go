package driven

import (
	"context"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// ActivityStore journals stage events locally.
type ActivityStore interface {
	// Record appends an event.
	Record(ctx context.Context, event domain.StageEvent) error

	// List returns the most recent events, newest first.
	// An empty ebookID lists events of every ebook; limit <= 0 means no limit.
	List(ctx context.Context, ebookID string, limit int) ([]domain.StageEvent, error)
}
