package driving

import (
	"context"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
)

// AuthService establishes and tears down sessions.
type AuthService interface {
	// Login performs a direct credential exchange.
	Login(ctx context.Context, req domain.LoginRequest) (*domain.Identity, error)

	// Register creates an account and signs in.
	Register(ctx context.Context, req domain.RegisterRequest) (*domain.Identity, error)

	// Resolve runs the load-time resolution: a redirect exchange when the
	// location carries a code, otherwise session rehydration.
	// location may be nil when there is no redirect to inspect.
	Resolve(ctx context.Context, location driven.RedirectLocation) (*domain.Identity, error)

	// Logout invalidates the session remotely (best effort) and always
	// clears it locally.
	Logout(ctx context.Context) error

	// BrowserLoginURL builds the provider login URL for a browser login
	// redirecting to redirectURI. It returns the URL and the state to expect.
	BrowserLoginURL(loginURL, redirectURI string) (string, string, error)

	// State returns the current flow state.
	State() domain.AuthState
}
