//nolint:noctx // Test file uses http.Get for convenience; context not required in tests
package oauth

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startServer(t *testing.T, state string) *CallbackServer {
	t.Helper()
	server := NewCallbackServer(0, state)
	require.NoError(t, server.Start())
	t.Cleanup(func() { _ = server.Stop() })
	return server
}

func baseURL(server *CallbackServer) string {
	return strings.TrimSuffix(server.RedirectURI(), "/callback")
}

func postExchange(t *testing.T, server *CallbackServer, form url.Values) *http.Response {
	t.Helper()
	resp, err := http.PostForm(baseURL(server)+"/exchange", form)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestNewCallbackServer(t *testing.T) {
	server := NewCallbackServer(8080, "state-123")

	require.NotNil(t, server)
	assert.Equal(t, 8080, server.Port())
	assert.Equal(t, "http://localhost:8080/callback", server.RedirectURI())
	assert.Nil(t, server.server)
}

func TestCallbackServer_StartRandomPort(t *testing.T) {
	server := startServer(t, "")

	assert.NotZero(t, server.Port())
}

func TestCallbackServer_StartPortInUse(t *testing.T) {
	first := startServer(t, "")

	second := NewCallbackServer(first.Port(), "")
	err := second.Start()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to listen")
}

func TestCallbackServer_StopNotStarted(t *testing.T) {
	server := NewCallbackServer(0, "")
	assert.NoError(t, server.Stop())
}

func TestCallbackServer_CallbackPageStripsFragment(t *testing.T) {
	server := startServer(t, "s")

	resp, err := http.Get(server.RedirectURI())
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "no-store", resp.Header.Get("Cache-Control"))
	page := string(body)
	assert.Contains(t, page, "history.replaceState")
	assert.Contains(t, page, "/exchange")
	assert.Contains(t, page, "session_id")
}

func TestCallbackServer_ProviderError(t *testing.T) {
	server := startServer(t, "s")

	resp, err := http.Get(server.RedirectURI() + "?error=access_denied&error_description=%3Cb%3Enope%3C%2Fb%3E")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), "&lt;b&gt;nope&lt;/b&gt;")
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err = server.WaitForLocation(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access_denied")
}

func TestCallbackServer_Exchange(t *testing.T) {
	server := startServer(t, "state-1")

	resp := postExchange(t, server, url.Values{"session_id": {"code-1"}, "state": {"state-1"}})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	loc, err := server.WaitForLocation(ctx)
	require.NoError(t, err)
	code, ok := loc.ExchangeCode()
	assert.True(t, ok)
	assert.Equal(t, "code-1", code)
}

func TestCallbackServer_ExchangeOnlyOnce(t *testing.T) {
	server := startServer(t, "")

	first := postExchange(t, server, url.Values{"session_id": {"code-1"}})
	second := postExchange(t, server, url.Values{"session_id": {"code-1"}})

	assert.Equal(t, http.StatusNoContent, first.StatusCode)
	assert.Equal(t, http.StatusConflict, second.StatusCode)
}

func TestCallbackServer_ExchangeRejects(t *testing.T) {
	tests := []struct {
		name string
		form url.Values
	}{
		{"state mismatch", url.Values{"session_id": {"code"}, "state": {"other"}}},
		{"missing state", url.Values{"session_id": {"code"}}},
		{"missing code", url.Values{"state": {"expected"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := startServer(t, "expected")

			resp := postExchange(t, server, tt.form)

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCallbackServer_ExchangeMethod(t *testing.T) {
	server := startServer(t, "")

	resp, err := http.Get(baseURL(server) + "/exchange")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestCallbackServer_WaitTimeout(t *testing.T) {
	server := NewCallbackServer(0, "")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := server.WaitForLocation(ctx)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFindAvailablePort(t *testing.T) {
	port, err := FindAvailablePort(18000, 18100)

	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, 18000)
	assert.LessOrEqual(t, port, 18100)
}

func TestFindAvailablePort_InvalidRange(t *testing.T) {
	_, err := FindAvailablePort(9000, 8000)

	assert.Error(t, err)
}
