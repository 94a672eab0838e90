package driven

import (
	"context"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

// TokenExchanger performs the two network exchanges against the provider's
// token endpoint. Both carry the context's deadline; neither blocks without
// a timeout.
type TokenExchanger interface {
	// ExchangeCode swaps an authorization code (plus the PKCE verifier it
	// was issued against) for fresh token material.
	ExchangeCode(ctx context.Context, app domain.ClientApp, code, redirectURI, codeVerifier string) (*domain.Credentials, error)

	// Refresh swaps a refresh token for a new access token and expiry.
	// Returns domain.ErrReauthRequired when the provider rejects the refresh
	// token itself (revoked or expired grant) and domain.ErrTransient for
	// network-level failures worth retrying.
	Refresh(ctx context.Context, app domain.ClientApp, refreshToken string) (*domain.Credentials, error)
}
