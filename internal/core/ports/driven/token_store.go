package driven

import (
	"context"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

// TokenStore persists the bearer token across process restarts.
// Cookie sessions are never persisted here; the transport owns them.
type TokenStore interface {
	// Load returns the persisted credential.
	// Returns nil if no token has been saved.
	Load(ctx context.Context) (*domain.Credential, error)

	// Save stores the credential's token, replacing any previous one.
	Save(ctx context.Context, cred domain.Credential) error

	// Delete removes the persisted token. Deleting nothing is not an error.
	Delete(ctx context.Context) error
}

// CredentialSource supplies the credential attached to every remote call.
type CredentialSource interface {
	// Credential returns the current credential. It never blocks on the network.
	Credential() domain.Credential
}
