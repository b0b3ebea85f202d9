package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
)

// tokenStore implements driven.TokenStore.
// The table holds at most one row.
type tokenStore struct {
	store *Store
}

var _ driven.TokenStore = (*tokenStore)(nil)

// Load returns the saved credential, or nil when nothing is saved.
func (s *tokenStore) Load(ctx context.Context) (*domain.Credential, error) {
	var (
		token    string
		issuedAt int64
	)
	err := s.store.db.QueryRowContext(ctx,
		"SELECT token, issued_at FROM session_token WHERE id = 1",
	).Scan(&token, &issuedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying session token: %w", err)
	}

	return &domain.Credential{
		Token:    token,
		IssuedAt: time.Unix(0, issuedAt),
	}, nil
}

// Save stores the token form of cred, replacing any previous token.
func (s *tokenStore) Save(ctx context.Context, cred domain.Credential) error {
	if !cred.HasToken() {
		return fmt.Errorf("%w: empty token", domain.ErrInvalidInput)
	}
	issuedAt := cred.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO session_token (id, token, issued_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET token = excluded.token, issued_at = excluded.issued_at
	`, cred.Token, issuedAt.UnixNano())
	if err != nil {
		return fmt.Errorf("saving session token: %w", err)
	}
	return nil
}

// Delete removes the saved token.
func (s *tokenStore) Delete(ctx context.Context) error {
	if _, err := s.store.db.ExecContext(ctx, "DELETE FROM session_token"); err != nil {
		return fmt.Errorf("deleting session token: %w", err)
	}
	return nil
}
