// Package file implements file-based persistence adapters.
//
// The credential store keeps the OAuth token record as a versioned JSON
// file. Writes go to a temp file in the same directory followed by a
// rename, so a crash mid-write never leaves a half-written record. A lock
// file guards each read-modify-write cycle against a second CLI instance.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
	"github.com/ledgerlane/sheetspend/internal/logger"
)

// Ensure CredentialsStore implements the interface.
var _ driven.CredentialsStore = (*CredentialsStore)(nil)

const (
	// dirPerm is the permission mode for the sheetspend directory.
	dirPerm = fs.FileMode(0o700)

	// filePerm is the permission mode for the token file. The record holds
	// a long-lived refresh token and must stay owner-only.
	filePerm = fs.FileMode(0o600)

	// lockWait is how long a Load/Save waits for a competing process to
	// release the lock before giving up.
	lockWait = 5 * time.Second

	// lockStale is the age after which a leftover lock file (crashed
	// process) is broken.
	lockStale = 30 * time.Second

	lockPollInterval = 50 * time.Millisecond
)

// CredentialsStore persists the token record at <dir>/token.json.
type CredentialsStore struct {
	path     string
	lockPath string
}

// NewCredentialsStore creates a store rooted at dir.
// If dir is empty, defaults to ~/.sheetspend.
func NewCredentialsStore(dir string) (*CredentialsStore, error) {
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(home, ".sheetspend")
	}

	if err := os.MkdirAll(dir, dirPerm); err != nil {
		return nil, fmt.Errorf("creating credentials directory: %w", err)
	}

	path := filepath.Join(dir, "token.json")
	return &CredentialsStore{
		path:     path,
		lockPath: path + ".lock",
	}, nil
}

// Path returns the token file path.
func (s *CredentialsStore) Path() string {
	return s.path
}

// Load reads and validates the persisted record.
func (s *CredentialsStore) Load(ctx context.Context) (*domain.Credentials, error) {
	unlock, err := s.lock(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	raw, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrCredentialsNotFound
		}
		return nil, fmt.Errorf("reading token file: %w", err)
	}

	var creds domain.Credentials
	if err := json.Unmarshal(raw, &creds); err != nil {
		logger.Warn("token file does not parse: %v", err)
		return nil, fmt.Errorf("%w: %v", domain.ErrCredentialsCorrupt, err)
	}
	if err := creds.Validate(); err != nil {
		logger.Warn("token file failed structural validation")
		return nil, err
	}
	return &creds, nil
}

// Save writes the record atomically with owner-only permissions.
func (s *CredentialsStore) Save(ctx context.Context, creds domain.Credentials) error {
	if err := creds.Validate(); err != nil {
		return fmt.Errorf("refusing to persist invalid credentials: %w", err)
	}

	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	raw, err := json.MarshalIndent(&creds, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	// Temp file in the same directory so the rename stays on one filesystem.
	tmp, err := os.CreateTemp(filepath.Dir(s.path), "token-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp token file: %w", err)
	}
	tmpName := tmp.Name()

	if err := tmp.Chmod(filePerm); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("restricting token file permissions: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing token file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing token file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing token file: %w", err)
	}
	return nil
}

// Delete removes the persisted record. Missing file is not an error.
func (s *CredentialsStore) Delete(ctx context.Context) error {
	unlock, err := s.lock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing token file: %w", err)
	}
	return nil
}

// lock acquires the inter-process lock file, waiting up to lockWait.
// A lock older than lockStale is assumed to belong to a crashed process
// and is broken.
func (s *CredentialsStore) lock(ctx context.Context) (func(), error) {
	deadline := time.Now().Add(lockWait)

	for {
		f, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, filePerm)
		if err == nil {
			fmt.Fprintf(f, "%d\n", os.Getpid())
			f.Close()
			return func() { os.Remove(s.lockPath) }, nil
		}
		if !errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("acquiring store lock: %w", err)
		}

		if info, statErr := os.Stat(s.lockPath); statErr == nil {
			if time.Since(info.ModTime()) > lockStale {
				logger.Warn("breaking stale credential store lock")
				os.Remove(s.lockPath)
				continue
			}
		}

		if time.Now().After(deadline) {
			return nil, domain.ErrStoreLocked
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockPollInterval):
		}
	}
}
