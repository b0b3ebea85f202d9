package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
)

// Ensure TokenStore implements the interface.
var _ driven.TokenStore = (*TokenStore)(nil)

// TokenStore is an in-memory implementation of driven.TokenStore.
// It backs ephemeral sessions and tests.
type TokenStore struct {
	mu   sync.RWMutex
	cred *domain.Credential
}

// NewTokenStore creates a new in-memory token store.
func NewTokenStore() *TokenStore {
	return &TokenStore{}
}

// Load returns the saved credential, or nil when nothing is saved.
func (s *TokenStore) Load(_ context.Context) (*domain.Credential, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cred == nil {
		return nil, nil
	}
	cred := *s.cred
	return &cred, nil
}

// Save stores the token form of cred.
func (s *TokenStore) Save(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = &domain.Credential{Token: cred.Token, IssuedAt: cred.IssuedAt}
	return nil
}

// Delete removes the saved credential.
func (s *TokenStore) Delete(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cred = nil
	return nil
}
