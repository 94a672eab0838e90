package driving

import (
	"context"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

// AuthService drives the credential lifecycle from the CLI.
type AuthService interface {
	// Login runs the interactive consent flow and persists the resulting
	// credentials. It is the only operation allowed to open a browser.
	Login(ctx context.Context) (*domain.Credentials, error)

	// Logout deletes the persisted credentials.
	Logout(ctx context.Context) error

	// Status reports the persisted credentials without mutating them.
	// Returns domain.ErrCredentialsNotFound when no grant exists.
	Status(ctx context.Context) (*domain.Credentials, error)
}
