// Package oauth implements the token-endpoint exchanges of the OAuth2
// authorization-code flow: code-for-tokens and refresh-for-access-token.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
)

// Ensure Exchanger implements the port.
var _ driven.TokenExchanger = (*Exchanger)(nil)

const requestTimeout = 30 * time.Second

// Exchanger talks to the provider's token endpoint.
type Exchanger struct {
	client *http.Client
}

// NewExchanger creates a token exchanger with a bounded request timeout.
func NewExchanger() *Exchanger {
	return &Exchanger{
		client: &http.Client{Timeout: requestTimeout},
	}
}

// tokenResponse is the provider's token endpoint success body.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// ExchangeCode exchanges an authorization code for tokens.
// The PKCE code verifier is sent when one was used for the request.
func (e *Exchanger) ExchangeCode(
	ctx context.Context,
	app domain.ClientApp,
	code, redirectURI, codeVerifier string,
) (*domain.Credentials, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", app.ClientID)
	data.Set("client_secret", app.ClientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", redirectURI)
	if codeVerifier != "" {
		data.Set("code_verifier", codeVerifier)
	}

	resp, err := e.post(ctx, app.TokenURL, data)
	if err != nil {
		return nil, err
	}

	creds := &domain.Credentials{
		Version:      domain.CredentialsVersion,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		TokenType:    resp.TokenType,
		Scopes:       scopesFromResponse(resp.Scope, app.Scopes),
		Expiry:       expiryFrom(resp.ExpiresIn),
	}
	if creds.RefreshToken == "" {
		// Google only issues a refresh token with access_type=offline and
		// prompt=consent; an exchange without one cannot survive restarts.
		return nil, fmt.Errorf("token response carried no refresh token")
	}
	return creds, nil
}

// Refresh exchanges a refresh token for new access material. The refresh
// token and scope set are carried over unchanged from the input grant.
func (e *Exchanger) Refresh(
	ctx context.Context,
	app domain.ClientApp,
	refreshToken string,
) (*domain.Credentials, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("refresh_token", refreshToken)
	data.Set("client_id", app.ClientID)
	data.Set("client_secret", app.ClientSecret)

	resp, err := e.post(ctx, app.TokenURL, data)
	if err != nil {
		return nil, err
	}

	return &domain.Credentials{
		Version:     domain.CredentialsVersion,
		AccessToken: resp.AccessToken,
		// Google does not rotate refresh tokens on refresh; keep the input.
		RefreshToken: refreshToken,
		TokenType:    resp.TokenType,
		Expiry:       expiryFrom(resp.ExpiresIn),
	}, nil
}

// post sends the form to the token endpoint and maps failures onto the
// domain taxonomy: invalid_grant -> ErrReauthRequired, 5xx and transport
// errors -> ErrTransient.
func (e *Exchanger) post(ctx context.Context, tokenURL string, data url.Values) (*tokenResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: token request: %v", domain.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyTokenError(resp)
	}

	var body tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}
	if body.AccessToken == "" {
		return nil, fmt.Errorf("token response carried no access token")
	}
	return &body, nil
}

func classifyTokenError(resp *http.Response) error {
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: token endpoint returned %d", domain.ErrTransient, resp.StatusCode)
	}

	var errResp struct {
		Error       string `json:"error"`
		Description string `json:"error_description"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil || errResp.Error == "" {
		return fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	// invalid_grant means the refresh token or code itself was rejected:
	// revoked consent, expired grant, or reused code. Not retryable.
	if errResp.Error == "invalid_grant" {
		return fmt.Errorf("%w: %s", domain.ErrReauthRequired, errResp.Description)
	}
	return fmt.Errorf("token error: %s - %s", errResp.Error, errResp.Description)
}

func expiryFrom(expiresIn int) time.Time {
	if expiresIn <= 0 {
		return time.Time{}
	}
	return time.Now().Add(time.Duration(expiresIn) * time.Second)
}

func scopesFromResponse(scope string, requested []string) []string {
	if scope == "" {
		return append([]string(nil), requested...)
	}
	return strings.Fields(scope)
}

// IsRetryable reports whether a token exchange failure is worth another
// attempt with backoff.
func IsRetryable(err error) bool {
	return errors.Is(err, domain.ErrTransient)
}
