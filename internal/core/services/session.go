package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
	"github.com/custodia-labs/ebookctl/internal/logger"
)

// Ensure SessionStore implements the interfaces.
var (
	_ driving.SessionService  = (*SessionStore)(nil)
	_ driven.CredentialSource = (*SessionStore)(nil)
)

// SessionStore holds the current credential and resolved identity.
// It makes no network calls of its own; identity resolution goes through
// the registered resolver.
type SessionStore struct {
	tokens driven.TokenStore

	mu          sync.RWMutex
	credential  domain.Credential
	identity    *domain.Identity
	resolver    driving.IdentityResolver
	subscribers []func()
	// generation changes whenever the credential is replaced or cleared.
	generation uint64

	resolving singleflight.Group
}

// NewSessionStore creates a session store backed by tokens.
// tokens may be nil, in which case nothing is persisted.
func NewSessionStore(tokens driven.TokenStore) *SessionStore {
	return &SessionStore{tokens: tokens}
}

// Load restores a persisted token, if any.
func (s *SessionStore) Load(ctx context.Context) error {
	if s.tokens == nil {
		return nil
	}
	cred, err := s.tokens.Load(ctx)
	if err != nil {
		return fmt.Errorf("load token: %w", err)
	}
	if cred == nil || !cred.HasToken() {
		return nil
	}

	s.mu.Lock()
	s.credential = domain.Credential{Token: cred.Token, IssuedAt: cred.IssuedAt}
	s.generation++
	s.mu.Unlock()

	logger.Debug("Restored session token issued at %s", cred.IssuedAt.Format(time.RFC3339))
	return nil
}

// SetCredential replaces the credential and persists its token form.
func (s *SessionStore) SetCredential(ctx context.Context, token string, cookiePresent bool) error {
	cred := domain.Credential{Token: token, CookieSession: cookiePresent}
	if token != "" {
		cred.IssuedAt = time.Now()
	}

	s.mu.Lock()
	s.credential = cred
	s.identity = nil
	s.generation++
	s.mu.Unlock()

	if s.tokens == nil {
		return nil
	}
	if token == "" {
		return s.tokens.Delete(ctx)
	}
	if err := s.tokens.Save(ctx, cred); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// SetIdentity caches identity for the current credential.
func (s *SessionStore) SetIdentity(identity domain.Identity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.identity = &identity
}

// Identity returns the cached identity without resolving.
func (s *SessionStore) Identity() (*domain.Identity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.identity == nil {
		return nil, false
	}
	identity := *s.identity
	return &identity, true
}

// Credential returns the current credential.
func (s *SessionStore) Credential() domain.Credential {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

// SetResolver registers the identity resolution hook.
func (s *SessionStore) SetResolver(resolver driving.IdentityResolver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resolver = resolver
}

// Subscribe registers fn to run after every Clear.
func (s *SessionStore) Subscribe(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// CurrentIdentity returns the cached identity or resolves it.
// Concurrent callers share one resolution. A resolution that finishes after
// the credential was replaced or cleared is discarded with ErrAuthRequired.
func (s *SessionStore) CurrentIdentity(ctx context.Context) (*domain.Identity, error) {
	if identity, ok := s.Identity(); ok {
		return identity, nil
	}

	s.mu.RLock()
	present := s.credential.IsPresent()
	resolver := s.resolver
	generation := s.generation
	s.mu.RUnlock()

	if !present {
		return nil, domain.ErrAuthRequired
	}
	if resolver == nil {
		return nil, fmt.Errorf("identity resolver: %w", domain.ErrNotImplemented)
	}

	key := fmt.Sprintf("identity:%d", generation)
	v, err, _ := s.resolving.Do(key, func() (any, error) {
		identity, err := resolver(ctx)
		if err != nil {
			return nil, err
		}
		if !s.cacheIdentity(generation, *identity) {
			logger.Debug("Discarding identity resolved for a replaced session")
			return nil, domain.ErrAuthRequired
		}
		return identity, nil
	})
	if err != nil {
		return nil, err
	}
	identity := *v.(*domain.Identity)
	return &identity, nil
}

// cacheIdentity stores identity only while the credential is still the one
// it was resolved for.
func (s *SessionStore) cacheIdentity(generation uint64, identity domain.Identity) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.generation != generation || !s.credential.IsPresent() {
		return false
	}
	s.identity = &identity
	return true
}

// Clear drops the credential and identity, deletes the persisted token,
// then notifies subscribers.
func (s *SessionStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.credential = domain.Credential{}
	s.identity = nil
	s.generation++
	subscribers := make([]func(), len(s.subscribers))
	copy(subscribers, s.subscribers)
	s.mu.Unlock()

	var err error
	if s.tokens != nil {
		if err = s.tokens.Delete(ctx); err != nil {
			err = fmt.Errorf("delete token: %w", err)
		}
	}

	for _, fn := range subscribers {
		fn()
	}
	return err
}
