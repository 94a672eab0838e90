package google

import (
	"context"

	"golang.org/x/oauth2"

	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
)

// tokenSource bridges the credential lifecycle into oauth2.TokenSource.
// Every Token call goes through the provider, which refreshes and persists
// credentials as needed; the refresh token never crosses this boundary and
// the oauth2 library's own refresh machinery is never engaged.
type tokenSource struct {
	ctx      context.Context
	provider driven.TokenProvider
}

// NewTokenSource wraps a TokenProvider for use with
// option.WithTokenSource() when constructing Google API services.
func NewTokenSource(ctx context.Context, provider driven.TokenProvider) oauth2.TokenSource {
	return &tokenSource{ctx: ctx, provider: provider}
}

func (s *tokenSource) Token() (*oauth2.Token, error) {
	access, err := s.provider.Token(s.ctx)
	if err != nil {
		return nil, err
	}
	return &oauth2.Token{AccessToken: access, TokenType: "Bearer"}, nil
}
