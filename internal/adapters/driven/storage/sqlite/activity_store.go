package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
)

// activityStore implements driven.ActivityStore.
type activityStore struct {
	store *Store
}

var _ driven.ActivityStore = (*activityStore)(nil)

// Record appends an event to the journal.
func (s *activityStore) Record(ctx context.Context, event domain.StageEvent) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO stage_events (id, ebook_id, stage, kind, message, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, event.ID, event.EbookID, string(event.Stage), string(event.Kind), event.Message, event.At.UnixNano())
	if err != nil {
		return fmt.Errorf("recording stage event: %w", err)
	}
	return nil
}

// List returns events newest first. An empty ebookID matches every ebook;
// a non-positive limit returns all matches.
func (s *activityStore) List(ctx context.Context, ebookID string, limit int) ([]domain.StageEvent, error) {
	query := "SELECT id, ebook_id, stage, kind, message, occurred_at FROM stage_events"
	var args []any
	if ebookID != "" {
		query += " WHERE ebook_id = ?"
		args = append(args, ebookID)
	}
	query += " ORDER BY occurred_at DESC, rowid DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying stage events: %w", err)
	}
	defer rows.Close()

	var events []domain.StageEvent
	for rows.Next() {
		var (
			event      domain.StageEvent
			stage      string
			kind       string
			occurredAt int64
		)
		if err := rows.Scan(&event.ID, &event.EbookID, &stage, &kind, &event.Message, &occurredAt); err != nil {
			return nil, fmt.Errorf("scanning stage event: %w", err)
		}
		event.Stage = domain.Stage(stage)
		event.Kind = domain.EventKind(kind)
		event.At = time.Unix(0, occurredAt)
		events = append(events, event)
	}
	return events, rows.Err()
}
