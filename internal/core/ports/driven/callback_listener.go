package driven

import "context"

// CallbackListener is the loopback redirect endpoint used by the consent
// flow. One listener serves exactly one flow: it is started, waited on for a
// single callback, and stopped on every exit path.
type CallbackListener interface {
	// Start binds the loopback listener. After Start, RedirectURI reports
	// the URI to embed in the authorization request.
	Start() error

	// WaitForCode blocks until the redirect callback delivers an
	// authorization code, the user denies the request
	// (domain.ErrConsentDenied), a callback carries the wrong state token
	// (domain.ErrStateMismatch), or ctx is done.
	WaitForCode(ctx context.Context) (string, error)

	// Stop releases the listener. Safe to call on every exit path,
	// including before a callback has arrived.
	Stop() error

	// RedirectURI returns the redirect URI for this listener.
	RedirectURI() string
}

// Browser hands an authorization URL to the user, normally by opening the
// system default browser.
type Browser interface {
	Open(url string) error
}
