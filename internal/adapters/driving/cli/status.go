package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current authorization state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	creds, err := authService.Status(context.Background())
	switch {
	case errors.Is(err, domain.ErrCredentialsNotFound):
		cmd.Println("Not authorized. Run: sheetspend login")
		return nil
	case errors.Is(err, domain.ErrCredentialsCorrupt):
		cmd.Println("Stored authorization is unreadable. Run: sheetspend login")
		return nil
	case err != nil:
		return fmt.Errorf("reading authorization state: %w", err)
	}

	cmd.Println("Authorized.")
	cmd.Printf("Scopes: %s\n", strings.Join(creds.Scopes, " "))
	if creds.Expired(time.Now()) {
		cmd.Println("Access token: expired (renewed automatically on next use)")
	} else {
		cmd.Printf("Access token: valid until %s\n", creds.Expiry.Local().Format(time.RFC1123))
	}
	return nil
}
