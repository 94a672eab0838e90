package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Configuration errors.

	// ErrClientAppMissing indicates the OAuth client descriptor file does not
	// exist. This is an operator configuration error, reported before any
	// network activity, and is distinct from missing credentials.
	ErrClientAppMissing = errors.New("OAuth client descriptor not found")

	// ErrClientAppInvalid indicates the client descriptor exists but cannot
	// be parsed into a usable OAuth configuration.
	ErrClientAppInvalid = errors.New("OAuth client descriptor invalid")

	// Credential store errors.

	// ErrCredentialsNotFound indicates no token file has been persisted yet
	// (first run, or after logout).
	ErrCredentialsNotFound = errors.New("credentials not found")

	// ErrCredentialsCorrupt indicates the persisted token file exists but
	// does not deserialize into a structurally valid record. Callers treat
	// this like ErrCredentialsNotFound (re-consent) but the two are reported
	// separately for diagnostics.
	ErrCredentialsCorrupt = errors.New("credentials corrupt")

	// ErrStoreLocked indicates another process holds the credential store
	// lock and it was not released within the lock wait window.
	ErrStoreLocked = errors.New("credential store locked by another process")

	// Consent flow errors.

	// ErrConsentDenied indicates the user declined the authorization request
	// in the browser.
	ErrConsentDenied = errors.New("consent denied by user")

	// ErrConsentTimeout indicates no callback arrived within the interactive
	// wait window.
	ErrConsentTimeout = errors.New("consent flow timed out")

	// ErrStateMismatch indicates a callback arrived carrying a state token
	// that does not match the one generated for this flow. The code exchange
	// is never performed in this case.
	ErrStateMismatch = errors.New("callback state mismatch")

	// Token lifecycle errors.

	// ErrReauthRequired indicates the refresh token was rejected by the
	// provider (revoked or expired grant). Refresh is never retried for this
	// condition; the user must run the consent flow again.
	ErrReauthRequired = errors.New("reauthorization required")

	// ErrForbidden indicates the API is disabled or the granted scopes are
	// insufficient. Fatal until the operator fixes the provider side.
	ErrForbidden = errors.New("access forbidden")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrTransient indicates a network-level or 5xx failure that may succeed
	// on retry.
	ErrTransient = errors.New("transient failure")
)
