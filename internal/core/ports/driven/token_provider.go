package driven

import "context"

// TokenProvider hands out valid access tokens for API calls.
// Implementations refresh transparently; refresh tokens never cross this
// interface.
type TokenProvider interface {
	// Token returns an access token valid for immediate use.
	// Returns domain.ErrReauthRequired when the grant has been revoked.
	Token(ctx context.Context) (string, error)
}
