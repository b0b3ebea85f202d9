package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
	"github.com/custodia-labs/ebookctl/internal/logger"
)

const (
	// DefaultTimeout bounds a single call. Content generation is slow.
	DefaultTimeout = 5 * time.Minute

	// SessionCookie is the cookie set by the redirect exchange.
	SessionCookie = "session_token"

	// HeaderRequestID tags every call.
	HeaderRequestID = "X-Request-ID"
)

// Ensure Client implements the remote ports.
var (
	_ driven.AuthGateway     = (*Client)(nil)
	_ driven.PipelineGateway = (*Client)(nil)
	_ driven.AssetGateway    = (*Client)(nil)
	_ driven.Exporter        = (*Client)(nil)
)

// Config configures a Client.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64
	Burst         int
	UserAgent     string
}

// Client is an HTTP client for the remote ebook service.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	limiter   *RateLimiter
	creds     driven.CredentialSource
	userAgent string

	jarMu sync.Mutex
	jar   http.CookieJar
}

// NewClient creates a client. creds supplies the credential for every call.
func NewClient(cfg Config, creds driven.CredentialSource) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid api url %q", cfg.BaseURL)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	return &Client{
		baseURL:   base,
		http:      &http.Client{Timeout: cfg.Timeout},
		limiter:   NewRateLimiter(cfg.RatePerSecond, cfg.Burst),
		creds:     creds,
		userAgent: cfg.UserAgent,
		jar:       jar,
	}, nil
}

// ResetCookies drops every stored cookie.
func (c *Client) ResetCookies() {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return
	}
	c.jarMu.Lock()
	defer c.jarMu.Unlock()
	c.jar = jar
}

// hasSessionCookie reports whether the jar holds the session cookie.
func (c *Client) hasSessionCookie() bool {
	c.jarMu.Lock()
	defer c.jarMu.Unlock()
	for _, cookie := range c.jar.Cookies(c.baseURL) {
		if cookie.Name == SessionCookie && cookie.Value != "" {
			return true
		}
	}
	return false
}

// endpoint resolves path against the base URL.
func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

// doJSON sends body as JSON and decodes a 2xx response into out.
// body and out may be nil.
func (c *Client) doJSON(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(path, query), reader)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(ctx, op, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return transportError(op, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

// doBytes performs a GET and returns the raw 2xx body.
func (c *Client) doBytes(ctx context.Context, op, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(path, nil), nil)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", op, err)
	}
	resp, err := c.do(ctx, op, req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(op, fmt.Errorf("read response: %w", err))
	}
	return data, nil
}

// do authenticates, throttles and sends req. Non-2xx responses are
// returned as errors with the body consumed.
func (c *Client) do(ctx context.Context, op string, req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, transportError(op, err)
	}
	// Once sent, a call runs to completion. Only the client timeout bounds it.
	req = req.WithContext(context.WithoutCancel(req.Context()))

	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	c.authenticate(req)

	logger.Debug("%s %s %s [%s]", op, req.Method, req.URL.Path, requestID)
	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(op, err)
	}
	logger.Debug("%s -> %d in %s", op, resp.StatusCode, time.Since(start).Round(time.Millisecond))

	c.limiter.Observe(resp)
	c.storeCookies(resp)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, responseError(op, resp)
	}
	return resp, nil
}

// authenticate sets the bearer header and, for cookie-backed sessions,
// the stored cookies.
func (c *Client) authenticate(req *http.Request) {
	if c.creds == nil {
		return
	}
	cred := c.creds.Credential()
	if cred.HasToken() {
		token := &oauth2.Token{AccessToken: cred.Token, TokenType: "Bearer"}
		token.SetAuthHeader(req)
	}

	req.Header.Del("Cookie")
	if !cred.CookieSession {
		return
	}
	c.jarMu.Lock()
	defer c.jarMu.Unlock()
	for _, cookie := range c.jar.Cookies(req.URL) {
		req.AddCookie(cookie)
	}
}

func (c *Client) storeCookies(resp *http.Response) {
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		return
	}
	c.jarMu.Lock()
	defer c.jarMu.Unlock()
	c.jar.SetCookies(resp.Request.URL, cookies)
}
