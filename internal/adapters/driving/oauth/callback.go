// Package oauth provides the loopback callback server for browser login.
package oauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/custodia-labs/ebookctl/internal/logger"
)

// CallbackServer receives the browser redirect of a provider login.
// The provider returns to /callback with the exchange code in the URL
// fragment, which never reaches the server; the served page strips it
// from the address bar and forwards it to /exchange.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	received      bool
	locationChan  chan *Location
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a new callback server.
// A non-empty expectedState must be echoed back by the provider.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		locationChan:  make(chan *Location, 1),
		errChan:       make(chan error, 1),
	}
}

// Start starts the callback server on the configured port.
// If port is 0, a random available port will be chosen.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.server = &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	// Store the actual port (important when port was 0)
	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.sendErr(err)
		}
	}()

	logger.Debug("Callback server listening on %s", s.RedirectURI())
	return nil
}

func (s *CallbackServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/callback", s.handleCallback)
	r.Post("/exchange", s.handleExchange)
	return r
}

// handleCallback serves the page that forwards the fragment.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		errDesc := r.URL.Query().Get("error_description")
		s.sendErr(fmt.Errorf("login error: %s - %s", errParam, errDesc))
		writePage(w, http.StatusOK, resultHTML("Sign-in failed", html.EscapeString(errDesc)))
		return
	}
	writePage(w, http.StatusOK, forwardHTML)
}

// handleExchange accepts the forwarded session_id once.
func (s *CallbackServer) handleExchange(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	if s.expectedState != "" && r.PostForm.Get("state") != s.expectedState {
		s.sendErr(errors.New("state mismatch"))
		http.Error(w, "invalid state", http.StatusBadRequest)
		return
	}

	code := r.PostForm.Get(SessionParam)
	if code == "" {
		http.Error(w, "missing session_id", http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	if s.received {
		s.mu.Unlock()
		http.Error(w, "already received", http.StatusConflict)
		return
	}
	s.received = true
	s.mu.Unlock()

	s.locationChan <- NewLocation(code)
	w.WriteHeader(http.StatusNoContent)
}

func (s *CallbackServer) sendErr(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// WaitForLocation blocks until the redirect location is received,
// the provider reports an error, or ctx is done.
func (s *CallbackServer) WaitForLocation(ctx context.Context) (*Location, error) {
	select {
	case loc := <-s.locationChan:
		return loc, nil
	case err := <-s.errChan:
		return nil, err
	case <-ctx.Done():
		return nil, fmt.Errorf("timeout waiting for login callback: %w", ctx.Err())
	}
}

// Stop shuts down the callback server.
func (s *CallbackServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.server.Shutdown(ctx)
	}
	return nil
}

// Port returns the port the server is listening on.
func (s *CallbackServer) Port() int {
	return s.port
}

// RedirectURI returns the redirect URI for this callback server.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.port)
}

func writePage(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, _ = fmt.Fprint(w, body)
}

const pageStyle = `<style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
            box-shadow: 0 4px 24px rgba(0,0,0,0.08);
        }
        h1 { color: #333F50; margin: 0 0 8px 0; font-size: 24px; font-weight: 600; }
        p { color: #7B8088; margin: 0; font-size: 16px; }
    </style>`

// forwardHTML strips the fragment before posting it, so a reload of the
// page carries no code.
const forwardHTML = `<!DOCTYPE html>
<html>
<head>
    <title>ebookctl - Sign in</title>
    ` + pageStyle + `
</head>
<body>
    <div class="container">
        <h1 id="title">Signing you in...</h1>
        <p id="message"></p>
    </div>
    <script>
        (function () {
            var fragment = new URLSearchParams(window.location.hash.slice(1));
            var query = new URLSearchParams(window.location.search);
            var sessionId = fragment.get("session_id");
            var state = fragment.get("state") || query.get("state") || "";
            history.replaceState(null, "", window.location.pathname);

            var title = document.getElementById("title");
            var message = document.getElementById("message");
            if (!sessionId) {
                title.textContent = "Nothing to do";
                message.textContent = "You can close this window.";
                return;
            }
            fetch("/exchange", {
                method: "POST",
                headers: {"Content-Type": "application/x-www-form-urlencoded"},
                body: new URLSearchParams({session_id: sessionId, state: state})
            }).then(function (resp) {
                if (!resp.ok) { throw new Error(resp.statusText); }
                title.textContent = "Signed in";
                message.textContent = "You can close this window and return to the terminal.";
            }).catch(function () {
                title.textContent = "Sign-in failed";
                message.textContent = "Return to the terminal and try again.";
            });
        })();
    </script>
</body>
</html>`

func resultHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>ebookctl - Sign in</title>
    %s
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, pageStyle, title, message)
}
