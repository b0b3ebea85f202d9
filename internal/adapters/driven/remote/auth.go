package remote

import (
	"context"
	"net/http"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
)

type authResponse struct {
	Token        string          `json:"token"`
	SessionToken string          `json:"session_token"`
	User         domain.Identity `json:"user"`
}

type exchangeRequest struct {
	SessionID string `json:"session_id"`
}

// Login exchanges email and password for a token.
func (c *Client) Login(ctx context.Context, req domain.LoginRequest) (*domain.AuthResult, error) {
	var resp authResponse
	if err := c.doJSON(ctx, "login", http.MethodPost, "/api/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: resp.Token, Identity: resp.User}, nil
}

// Register creates an account and returns its token.
func (c *Client) Register(ctx context.Context, req domain.RegisterRequest) (*domain.AuthResult, error) {
	var resp authResponse
	if err := c.doJSON(ctx, "register", http.MethodPost, "/api/auth/register", nil, req, &resp); err != nil {
		return nil, err
	}
	return &domain.AuthResult{Token: resp.Token, Identity: resp.User}, nil
}

// ExchangeCode trades a redirect session id for a session token and cookie.
func (c *Client) ExchangeCode(ctx context.Context, code string) (*domain.AuthResult, error) {
	var resp authResponse
	err := c.doJSON(ctx, "exchange", http.MethodPost, "/api/auth/google", nil, exchangeRequest{SessionID: code}, &resp)
	if err != nil {
		return nil, err
	}
	token := resp.SessionToken
	if token == "" {
		token = resp.Token
	}
	return &domain.AuthResult{
		Token:         token,
		Identity:      resp.User,
		CookieSession: c.hasSessionCookie(),
	}, nil
}

// WhoAmI resolves the identity of the current credential.
func (c *Client) WhoAmI(ctx context.Context) (*domain.Identity, error) {
	var identity domain.Identity
	if err := c.doJSON(ctx, "whoami", http.MethodGet, "/api/auth/me", nil, nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// Logout invalidates the session remotely.
func (c *Client) Logout(ctx context.Context) error {
	return c.doJSON(ctx, "logout", http.MethodPost, "/api/auth/logout", nil, nil, nil)
}
