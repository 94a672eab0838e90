package file

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2/google"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

// DefaultScopes is the scope set requested at consent time. Read-only:
// sheetspend never writes back to the spreadsheet.
var DefaultScopes = []string{"https://www.googleapis.com/auth/spreadsheets.readonly"}

// ClientAppPath returns the expected descriptor location under configDir
// (default ~/.sheetspend/client_secret.json).
func ClientAppPath(configDir string) (string, error) {
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".sheetspend")
	}
	return filepath.Join(configDir, "client_secret.json"), nil
}

// LoadClientApp reads the operator-supplied OAuth client descriptor
// (client_secret.json downloaded from the Google Cloud console).
//
// A missing file is domain.ErrClientAppMissing, a configuration error the
// CLI reports before any network activity; it is distinct from missing
// credentials, which trigger the consent flow instead.
func LoadClientApp(path string) (*domain.ClientApp, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", domain.ErrClientAppMissing, path)
		}
		return nil, fmt.Errorf("reading client descriptor: %w", err)
	}

	cfg, err := google.ConfigFromJSON(raw, DefaultScopes...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrClientAppInvalid, err)
	}

	app := &domain.ClientApp{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		AuthURL:      cfg.Endpoint.AuthURL,
		TokenURL:     cfg.Endpoint.TokenURL,
		Scopes:       cfg.Scopes,
	}
	if cfg.RedirectURL != "" {
		app.RedirectURIs = []string{cfg.RedirectURL}
	}
	if err := app.Validate(); err != nil {
		return nil, err
	}
	return app, nil
}
