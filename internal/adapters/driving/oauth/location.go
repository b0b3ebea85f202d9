package oauth

import (
	"fmt"
	"net/url"
	"sync"

	"github.com/custodia-labs/ebookctl/internal/core/domain"
	"github.com/custodia-labs/ebookctl/internal/core/ports/driven"
)

// SessionParam is the fragment parameter carrying the exchange code.
const SessionParam = "session_id"

// Ensure Location implements the interface.
var _ driven.RedirectLocation = (*Location)(nil)

// Location is a redirect URL whose fragment may carry an exchange code.
type Location struct {
	mu       sync.Mutex
	url      *url.URL
	fragment url.Values
}

// ParseLocation parses a redirect URL such as
// http://localhost:18765/callback#session_id=abc.
func ParseLocation(raw string) (*Location, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redirect url: %v", domain.ErrInvalidInput, err)
	}
	fragment, err := url.ParseQuery(u.Fragment)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid redirect fragment: %v", domain.ErrInvalidInput, err)
	}
	return &Location{url: u, fragment: fragment}, nil
}

// NewLocation builds a location carrying code.
func NewLocation(code string) *Location {
	fragment := url.Values{}
	if code != "" {
		fragment.Set(SessionParam, code)
	}
	return &Location{url: &url.URL{Path: "/callback"}, fragment: fragment}
}

// ExchangeCode returns the session_id fragment parameter.
func (l *Location) ExchangeCode() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	code := l.fragment.Get(SessionParam)
	return code, code != ""
}

// StripExchangeCode removes session_id from the fragment.
func (l *Location) StripExchangeCode() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.fragment.Del(SessionParam)
}

// String returns the location with its current fragment.
func (l *Location) String() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	u := *l.url
	u.Fragment = l.fragment.Encode()
	return u.String()
}
