package driving

import (
	"context"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// IdentityResolver resolves the identity of the current credential.
type IdentityResolver func(ctx context.Context) (*domain.Identity, error)

// SessionService holds the current credential and the resolved identity.
type SessionService interface {
	// SetCredential replaces the credential. An empty token with
	// cookiePresent false is equivalent to Clear without notification.
	SetCredential(ctx context.Context, token string, cookiePresent bool) error

	// SetIdentity caches an identity returned by a login or exchange.
	SetIdentity(identity domain.Identity)

	// Clear removes the credential, the persisted token and the identity,
	// then notifies subscribers.
	Clear(ctx context.Context) error

	// CurrentIdentity returns the cached identity or resolves it.
	CurrentIdentity(ctx context.Context) (*domain.Identity, error)

	// Identity returns the cached identity without resolving.
	Identity() (*domain.Identity, bool)

	// Credential returns the current credential.
	Credential() domain.Credential

	// SetResolver registers the hook CurrentIdentity resolves through.
	SetResolver(resolver IdentityResolver)

	// Subscribe registers fn to run after every Clear.
	Subscribe(fn func())
}
