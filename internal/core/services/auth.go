package services

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driving"
	"github.com/custodia-labs/ebookctl/internal/logger"
)

// Ensure AuthController implements the interface.
var _ driving.AuthService = (*AuthController)(nil)

// exchangeOutcome is the settled result of a consumed exchange code.
type exchangeOutcome struct {
	identity *domain.Identity
	err      error
}

// AuthController runs the authentication state machine.
type AuthController struct {
	gateway driven.AuthGateway
	session driving.SessionService

	mu         sync.Mutex
	state      domain.AuthState
	exchanging string
	consumed   map[string]exchangeOutcome

	exchanges singleflight.Group
}

// NewAuthController creates the controller and registers it with session
// as identity resolver and invalidation subscriber.
func NewAuthController(gateway driven.AuthGateway, session driving.SessionService) *AuthController {
	c := &AuthController{
		gateway:  gateway,
		session:  session,
		state:    domain.AuthIdle,
		consumed: make(map[string]exchangeOutcome),
	}
	session.SetResolver(c.whoAmI)
	session.Subscribe(func() { c.setState(domain.AuthAnonymous) })
	return c
}

// State returns the current flow state.
func (c *AuthController) State() domain.AuthState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *AuthController) setState(state domain.AuthState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != state {
		logger.Debug("Auth state %s -> %s", c.state, state)
	}
	c.state = state
}

// Login performs a direct credential exchange.
func (c *AuthController) Login(ctx context.Context, req domain.LoginRequest) (*domain.Identity, error) {
	if req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}
	result, err := c.gateway.Login(ctx, req)
	if err != nil {
		c.failIfUnauthenticated()
		return nil, domain.NewAuthError("login", err)
	}
	return c.establish(ctx, result)
}

// Register creates an account and signs in.
func (c *AuthController) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Identity, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, fmt.Errorf("%w: username, email and password are required", domain.ErrInvalidInput)
	}
	result, err := c.gateway.Register(ctx, req)
	if err != nil {
		c.failIfUnauthenticated()
		return nil, domain.NewAuthError("register", err)
	}
	return c.establish(ctx, result)
}

// Resolve runs a redirect exchange when location carries a code, joins an
// exchange already in flight, and otherwise rehydrates the stored session.
func (c *AuthController) Resolve(ctx context.Context, location driven.RedirectLocation) (*domain.Identity, error) {
	if location != nil {
		if code, ok := location.ExchangeCode(); ok {
			location.StripExchangeCode()
			return c.exchange(ctx, code)
		}
	}

	c.mu.Lock()
	pending := c.exchanging
	c.mu.Unlock()
	if pending != "" {
		return c.exchange(ctx, pending)
	}

	return c.rehydrate(ctx)
}

// exchange calls the remote exchange at most once per code.
func (c *AuthController) exchange(ctx context.Context, code string) (*domain.Identity, error) {
	c.mu.Lock()
	if _, ok := c.consumed[code]; !ok {
		c.exchanging = code
	}
	c.mu.Unlock()

	v, err, shared := c.exchanges.Do(code, func() (any, error) {
		c.mu.Lock()
		if outcome, ok := c.consumed[code]; ok {
			c.mu.Unlock()
			return outcome.identity, outcome.err
		}
		c.state = domain.AuthResolvingRedirect
		c.mu.Unlock()

		logger.Debug("Exchanging redirect code")
		identity, err := c.runExchange(ctx, code)

		c.mu.Lock()
		if c.exchanging == code {
			c.exchanging = ""
		}
		c.consumed[code] = exchangeOutcome{identity: identity, err: err}
		c.mu.Unlock()
		return identity, err
	})
	if shared {
		logger.Debug("Joined in-flight redirect exchange")
	}
	if err != nil {
		return nil, err
	}
	identity := *v.(*domain.Identity)
	return &identity, nil
}

func (c *AuthController) runExchange(ctx context.Context, code string) (*domain.Identity, error) {
	result, err := c.gateway.ExchangeCode(ctx, code)
	if err != nil {
		c.setState(domain.AuthAnonymous)
		return nil, domain.NewAuthError("exchange", err)
	}
	identity, err := c.establish(ctx, result)
	if err != nil {
		return nil, err
	}
	return identity, nil
}

// rehydrate resolves the identity of a stored credential.
func (c *AuthController) rehydrate(ctx context.Context) (*domain.Identity, error) {
	if !c.session.Credential().IsPresent() {
		c.setState(domain.AuthAnonymous)
		return nil, nil
	}

	c.setState(domain.AuthResolvingSession)
	identity, err := c.session.CurrentIdentity(ctx)
	if err != nil {
		c.setState(domain.AuthAnonymous)
		return nil, err
	}
	if !c.session.Credential().IsPresent() {
		c.setState(domain.AuthAnonymous)
		return nil, domain.ErrAuthRequired
	}
	c.setState(domain.AuthAuthenticated)
	return identity, nil
}

// whoAmI is the session's identity resolver. Any failure clears the
// stored credential.
func (c *AuthController) whoAmI(ctx context.Context) (*domain.Identity, error) {
	before := c.session.Credential()
	identity, err := c.gateway.WhoAmI(ctx)
	if err != nil {
		logger.Warn("Session rehydration failed: %v", err)
		if c.session.Credential() != before {
			return nil, err
		}
		if clearErr := c.session.Clear(ctx); clearErr != nil {
			logger.Warn("Failed to clear session: %v", clearErr)
		}
		return nil, err
	}
	return identity, nil
}

// Logout invalidates the session remotely, then always clears it locally.
func (c *AuthController) Logout(ctx context.Context) error {
	if c.session.Credential().IsPresent() {
		if err := c.gateway.Logout(ctx); err != nil {
			logger.Warn("Remote logout failed: %v", err)
		}
	}
	err := c.session.Clear(ctx)
	c.setState(domain.AuthAnonymous)
	return err
}

// BrowserLoginURL appends the redirect target and a fresh state to loginURL.
func (c *AuthController) BrowserLoginURL(loginURL, redirectURI string) (string, string, error) {
	u, err := url.Parse(loginURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return "", "", fmt.Errorf("%w: invalid login url %q", domain.ErrInvalidInput, loginURL)
	}
	state, err := generateState()
	if err != nil {
		return "", "", fmt.Errorf("generate state: %w", err)
	}
	q := u.Query()
	q.Set("redirect", redirectURI)
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), state, nil
}

// establish stores the credential and identity of a successful exchange.
func (c *AuthController) establish(ctx context.Context, result *domain.AuthResult) (*domain.Identity, error) {
	if err := c.session.SetCredential(ctx, result.Token, result.CookieSession); err != nil {
		logger.Warn("Failed to persist session: %v", err)
	}
	c.session.SetIdentity(result.Identity)
	c.setState(domain.AuthAuthenticated)
	identity := result.Identity
	return &identity, nil
}

func (c *AuthController) failIfUnauthenticated() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != domain.AuthAuthenticated {
		c.state = domain.AuthAnonymous
	}
}
