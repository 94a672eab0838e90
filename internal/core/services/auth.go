package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driving"
	"github.com/ledgerlane/sheetspend/internal/logger"
)

// Ensure AuthService implements the interfaces.
var (
	_ driving.AuthService  = (*AuthService)(nil)
	_ driven.TokenProvider = (*AuthService)(nil)
)

// AuthService composes the credential lifecycle: store, consent flow, and
// refresher. It is the only layer that sees refresh tokens; API consumers
// get access tokens through the TokenProvider interface.
type AuthService struct {
	app       domain.ClientApp
	store     driven.CredentialsStore
	consent   *ConsentFlow
	refresher *Refresher
}

// NewAuthService creates the auth service.
func NewAuthService(
	app domain.ClientApp,
	store driven.CredentialsStore,
	consent *ConsentFlow,
	refresher *Refresher,
) *AuthService {
	return &AuthService{
		app:       app,
		store:     store,
		consent:   consent,
		refresher: refresher,
	}
}

// Login runs the interactive consent flow and persists the grant.
func (s *AuthService) Login(ctx context.Context) (*domain.Credentials, error) {
	creds, err := s.consent.Run(ctx, s.app)
	if err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, *creds); err != nil {
		return nil, fmt.Errorf("persisting credentials: %w", err)
	}
	return creds, nil
}

// Logout deletes the persisted grant, returning to the pre-grant state.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.Delete(ctx)
}

// Status reports the persisted credentials without mutating them.
func (s *AuthService) Status(ctx context.Context) (*domain.Credentials, error) {
	return s.store.Load(ctx)
}

// Get returns credentials valid for immediate use. Missing or corrupt
// persisted material triggers the interactive consent flow; a revoked
// grant surfaces as domain.ErrReauthRequired without re-running consent,
// so the user gets one clear reauthorize instruction instead of a surprise
// browser window.
func (s *AuthService) Get(ctx context.Context) (*domain.Credentials, error) {
	creds, err := s.store.Load(ctx)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrCredentialsNotFound), errors.Is(err, domain.ErrCredentialsCorrupt):
		if errors.Is(err, domain.ErrCredentialsCorrupt) {
			logger.Warn("persisted credentials corrupt, re-running consent")
		}
		creds, err = s.Login(ctx)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.refresher.EnsureValid(ctx, creds)
}

// Token implements driven.TokenProvider for API clients.
func (s *AuthService) Token(ctx context.Context) (string, error) {
	creds, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	return creds.AccessToken, nil
}
