package domain

// ClientApp holds the OAuth application credentials supplied by the
// operator, parsed from the provider's client descriptor file
// (client_secret.json from the Google Cloud console). Immutable for the
// process lifetime.
type ClientApp struct {
	// ClientID is the OAuth client ID from the developer console.
	ClientID string `json:"client_id"`
	// ClientSecret is the OAuth client secret from the developer console.
	ClientSecret string `json:"client_secret"`
	// AuthURL is the authorization endpoint.
	AuthURL string `json:"auth_url"`
	// TokenURL is the token exchange endpoint.
	TokenURL string `json:"token_url"`
	// RedirectURIs are the registered redirect URIs. The loopback flow only
	// requires that a localhost URI is registered.
	RedirectURIs []string `json:"redirect_uris"`
	// Scopes are the scopes requested at consent time.
	Scopes []string `json:"scopes"`
}

// Validate checks the descriptor carries everything the consent flow needs.
func (a *ClientApp) Validate() error {
	if a.ClientID == "" || a.ClientSecret == "" {
		return ErrClientAppInvalid
	}
	if a.AuthURL == "" || a.TokenURL == "" {
		return ErrClientAppInvalid
	}
	if len(a.Scopes) == 0 {
		return ErrClientAppInvalid
	}
	return nil
}
