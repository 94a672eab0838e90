package services

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
	"github.com/ledgerlane/sheetspend/internal/logger"
)

// DefaultConsentTimeout bounds the interactive wait for the browser
// callback. The flow also honours cancellation of the caller's context.
const DefaultConsentTimeout = 5 * time.Minute

// ListenerFactory creates a loopback callback listener expecting the given
// state token. One listener is created per flow and always released.
type ListenerFactory func(expectedState string) driven.CallbackListener

// ConsentFlow drives the one-time interactive authorization-code grant.
type ConsentFlow struct {
	exchanger   driven.TokenExchanger
	browser     driven.Browser
	newListener ListenerFactory
	timeout     time.Duration
	out         io.Writer
}

// NewConsentFlow creates the consent flow service. A timeout of zero means
// DefaultConsentTimeout.
func NewConsentFlow(
	exchanger driven.TokenExchanger,
	browser driven.Browser,
	newListener ListenerFactory,
	timeout time.Duration,
) *ConsentFlow {
	if timeout <= 0 {
		timeout = DefaultConsentTimeout
	}
	return &ConsentFlow{
		exchanger:   exchanger,
		browser:     browser,
		newListener: newListener,
		timeout:     timeout,
		out:         os.Stdout,
	}
}

// SetOutput redirects the user-facing prompt. Useful for testing.
func (f *ConsentFlow) SetOutput(w io.Writer) {
	f.out = w
}

// Run performs one interactive grant: it opens the browser on the
// authorization URL and blocks until exactly one callback arrives, the
// bounded wait expires, or ctx is cancelled. The loopback listener is
// released on every exit path.
func (f *ConsentFlow) Run(ctx context.Context, app domain.ClientApp) (*domain.Credentials, error) {
	if err := app.Validate(); err != nil {
		return nil, err
	}

	state, err := newStateToken()
	if err != nil {
		return nil, fmt.Errorf("generating state token: %w", err)
	}
	pkce, err := newPKCEPair()
	if err != nil {
		return nil, err
	}

	listener := f.newListener(state)
	if err := listener.Start(); err != nil {
		return nil, fmt.Errorf("starting callback listener: %w", err)
	}
	defer listener.Stop()

	redirectURI := listener.RedirectURI()
	authURL := buildAuthURL(app, redirectURI, state, pkce.Challenge)

	logger.Section("Consent Flow")
	logger.Info("listening for callback on %s", redirectURI)
	fmt.Fprintf(f.out, "Opening your browser for Google authorization.\nIf it does not open, visit:\n\n  %s\n\n", authURL)
	if err := f.browser.Open(authURL); err != nil {
		// Not fatal: the URL is printed and can be opened by hand.
		logger.Warn("could not open browser: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	code, err := listener.WaitForCode(waitCtx)
	if err != nil {
		return nil, err
	}

	creds, err := f.exchanger.ExchangeCode(ctx, app, code, redirectURI, pkce.Verifier)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	if err := creds.Validate(); err != nil {
		return nil, err
	}
	logger.Info("consent grant completed, scopes: %s", strings.Join(creds.Scopes, " "))
	return creds, nil
}

// buildAuthURL constructs the authorization URL. access_type=offline and
// prompt=consent make Google issue a refresh token on every grant.
func buildAuthURL(app domain.ClientApp, redirectURI, state, challenge string) string {
	q := url.Values{}
	q.Set("response_type", "code")
	q.Set("client_id", app.ClientID)
	q.Set("redirect_uri", redirectURI)
	q.Set("scope", strings.Join(app.Scopes, " "))
	q.Set("state", state)
	q.Set("code_challenge", challenge)
	q.Set("code_challenge_method", "S256")
	q.Set("access_type", "offline")
	q.Set("prompt", "consent")

	sep := "?"
	if strings.Contains(app.AuthURL, "?") {
		sep = "&"
	}
	return app.AuthURL + sep + q.Encode()
}
