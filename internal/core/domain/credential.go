package domain

import "time"

// Credential holds whatever proves the current session to the remote service.
// A bearer token and a cookie-backed session may both be present; either one
// is enough to attempt identity resolution.
type Credential struct {
	// Token is the bearer token. Only this form is persisted locally.
	Token string `json:"token,omitempty"`

	// CookieSession is true when the transport holds a session cookie.
	// The cookie itself is owned by the transport's jar.
	CookieSession bool `json:"-"`

	// IssuedAt is when the token was stored.
	IssuedAt time.Time `json:"issued_at,omitempty"`
}

// HasToken returns true if a bearer token is present.
func (c Credential) HasToken() bool {
	return c.Token != ""
}

// IsPresent returns true if any credential form is present.
func (c Credential) IsPresent() bool {
	return c.Token != "" || c.CookieSession
}

// Identity is the user resolved from a session.
type Identity struct {
	ID      string `json:"id"`
	Name    string `json:"username"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
}

// AuthState is a state of the authentication flow.
type AuthState string

// Authentication flow states.
const (
	AuthIdle              AuthState = "idle"
	AuthResolvingRedirect AuthState = "resolving_redirect"
	AuthResolvingSession  AuthState = "resolving_session"
	AuthAuthenticated     AuthState = "authenticated"
	AuthAnonymous         AuthState = "anonymous"
)

// IsResolving returns true while a redirect exchange or rehydration is pending.
func (s AuthState) IsResolving() bool {
	return s == AuthResolvingRedirect || s == AuthResolvingSession
}

// AuthResult is what a successful login, registration or exchange returns.
type AuthResult struct {
	Token    string
	Identity Identity
	// CookieSession is true when the exchange also set a session cookie.
	CookieSession bool
}

// LoginRequest carries direct-exchange credentials.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest carries registration fields.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
