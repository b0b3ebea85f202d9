package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
)

// Ensure ActivityStore implements the interface.
var _ driven.ActivityStore = (*ActivityStore)(nil)

// ActivityStore is an in-memory implementation of driven.ActivityStore.
type ActivityStore struct {
	mu     sync.RWMutex
	events []domain.StageEvent
}

// NewActivityStore creates a new in-memory activity store.
func NewActivityStore() *ActivityStore {
	return &ActivityStore{}
}

// Record appends an event.
func (s *ActivityStore) Record(_ context.Context, event domain.StageEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// List returns events newest first. An empty ebookID matches every ebook;
// a non-positive limit returns all matches.
func (s *ActivityStore) List(_ context.Context, ebookID string, limit int) ([]domain.StageEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]domain.StageEvent, 0, len(s.events))
	for _, event := range slices.Backward(s.events) {
		if ebookID != "" && event.EbookID != ebookID {
			continue
		}
		result = append(result, event)
		if limit > 0 && len(result) == limit {
			break
		}
	}
	return result, nil
}
