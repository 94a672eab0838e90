package driven

import (
	"context"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

// CredentialsStore persists the single-user OAuth token record.
//
// Implementations must write atomically (a crash mid-save never leaves a
// half-written record) and hold an exclusive inter-process lock for the
// duration of each read or write, covering two CLI instances run
// concurrently.
type CredentialsStore interface {
	// Load reads the persisted record. Returns domain.ErrCredentialsNotFound
	// when no record exists and domain.ErrCredentialsCorrupt when the bytes
	// do not deserialize into a structurally valid record.
	Load(ctx context.Context) (*domain.Credentials, error)

	// Save writes the record atomically, restricting file permissions to the
	// owning user.
	Save(ctx context.Context, creds domain.Credentials) error

	// Delete removes the persisted record, returning the system to its
	// pre-grant state. Deleting an absent record is not an error.
	Delete(ctx context.Context) error
}
