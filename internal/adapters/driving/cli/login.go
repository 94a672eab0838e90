package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authorize access to your Google Sheets",
	Long: `Run the one-time browser authorization.

A browser window opens on the Google consent page. After you approve, the
grant is stored locally (readable only by your user) and access tokens are
renewed automatically from then on.

Requires an OAuth client descriptor (client_secret.json) in the sheetspend
config directory. Create one in the Google Cloud console under
"APIs & Services > Credentials" with application type "Desktop app".`,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	creds, err := authService.Login(context.Background())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrConsentDenied):
			return errors.New("authorization was denied in the browser")
		case errors.Is(err, domain.ErrConsentTimeout):
			return errors.New("authorization timed out waiting for the browser")
		case errors.Is(err, domain.ErrClientAppMissing):
			return fmt.Errorf("no OAuth client configured: %w", err)
		}
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Println("Authorization complete.")
	cmd.Printf("Scopes: %s\n", strings.Join(creds.Scopes, " "))
	return nil
}
