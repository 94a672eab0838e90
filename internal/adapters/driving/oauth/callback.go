// Package oauth provides the loopback OAuth callback server and browser
// launcher used by the interactive consent flow.
package oauth

import (
	"context"
	"fmt"
	"html"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
)

// Ensure CallbackServer implements the port.
var _ driven.CallbackListener = (*CallbackServer)(nil)

// CallbackServer handles the OAuth redirect callback for one consent flow.
// It starts a local HTTP server on an ephemeral loopback port to receive
// the authorization code.
type CallbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
}

// NewCallbackServer creates a new OAuth callback server.
// The expectedState is used to validate the callback matches the request.
// If port is 0, an ephemeral port is chosen at Start.
func NewCallbackServer(port int, expectedState string) *CallbackServer {
	return &CallbackServer{
		port:          port,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
	}
}

// Start binds the loopback listener and begins serving callbacks.
func (s *CallbackServer) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
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
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			select {
			case s.errChan <- err:
			default:
			}
		}
	}()

	return nil
}

// handleCallback processes the OAuth callback request. Exactly one outcome
// is delivered per flow; later callbacks are answered but ignored.
func (s *CallbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	// Denial or other provider-reported error
	if errParam := r.URL.Query().Get("error"); errParam != "" {
		errDesc := r.URL.Query().Get("error_description")
		if errParam == "access_denied" {
			s.deliverErr(domain.ErrConsentDenied)
		} else {
			s.deliverErr(fmt.Errorf("oauth error: %s - %s", errParam, errDesc))
		}
		s.writePage(w, "Authorization failed", html.EscapeString(errParam))
		return
	}

	// Validate state parameter. A mismatch may be a spoofed callback; the
	// code it carries is never exchanged.
	if state := r.URL.Query().Get("state"); state != s.expectedState {
		s.deliverErr(domain.ErrStateMismatch)
		s.writePage(w, "Authorization failed", "invalid state parameter")
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		s.deliverErr(fmt.Errorf("no authorization code received"))
		s.writePage(w, "Authorization failed", "no code received")
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}

	s.writePage(w, "Authorization successful!",
		"You can close this window and return to the terminal.")
}

func (s *CallbackServer) deliverErr(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// WaitForCode blocks until the authorization code is received, the flow
// fails, or ctx is done. The caller bounds the wait via ctx; a deadline
// expiry is reported as domain.ErrConsentTimeout.
func (s *CallbackServer) WaitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return "", domain.ErrConsentTimeout
		}
		return "", ctx.Err()
	}
}

// Stop shuts down the callback server and releases the loopback port.
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
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.port
}

// RedirectURI returns the redirect URI for this callback server.
func (s *CallbackServer) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.Port())
}

func (s *CallbackServer) writePage(w http.ResponseWriter, title, message string) {
	w.Header().Set("Content-Type", "text/html")
	fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head>
    <title>sheetspend</title>
    <style>
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
        }
        h1 { color: #333F50; margin: 0 0 8px 0; font-size: 24px; }
        p { color: #7B8088; margin: 0; font-size: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, title, message)
}
