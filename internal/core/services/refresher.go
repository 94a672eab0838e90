package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
	"github.com/ledgerlane/sheetspend/internal/logger"
)

const (
	// refreshAttempts bounds retries of a transient refresh failure.
	refreshAttempts = 3
	// refreshBackoff is the initial backoff, doubled per attempt.
	refreshBackoff = 500 * time.Millisecond
)

// Refresher keeps access material valid, exchanging the refresh token when
// the access token is at or near expiry.
//
// Concurrent callers observing expired material share a single in-flight
// exchange: exactly one network refresh is performed and its outcome is
// broadcast to all waiters.
type Refresher struct {
	app       domain.ClientApp
	store     driven.CredentialsStore
	exchanger driven.TokenExchanger
	group     singleflight.Group

	// now is swapped in tests.
	now func() time.Time
	// sleep is swapped in tests to skip real backoff waits.
	sleep func(context.Context, time.Duration) error
}

// NewRefresher creates a token refresher.
func NewRefresher(app domain.ClientApp, store driven.CredentialsStore, exchanger driven.TokenExchanger) *Refresher {
	return &Refresher{
		app:       app,
		store:     store,
		exchanger: exchanger,
		now:       time.Now,
		sleep:     sleepCtx,
	}
}

// EnsureValid returns credentials whose access token is usable now.
// Unexpired input is returned unchanged. Expired input triggers one shared
// refresh exchange; the refreshed record is persisted before being
// returned. A rejected refresh token surfaces as domain.ErrReauthRequired
// and is never retried.
func (r *Refresher) EnsureValid(ctx context.Context, creds *domain.Credentials) (*domain.Credentials, error) {
	if creds == nil {
		return nil, domain.ErrCredentialsNotFound
	}
	if !creds.Expired(r.now()) {
		return creds, nil
	}
	if !creds.HasRefreshToken() {
		return nil, domain.ErrReauthRequired
	}

	// All concurrent callers funnel into one exchange. The key is constant:
	// there is exactly one user grant per process.
	v, err, _ := r.group.Do("token-refresh", func() (any, error) {
		return r.refresh(ctx, creds)
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Credentials).Clone(), nil
}

// refresh performs the exchange with bounded retries for transient
// failures, then persists the mutated record.
func (r *Refresher) refresh(ctx context.Context, creds *domain.Credentials) (*domain.Credentials, error) {
	logger.Debug("access token expired at %s, refreshing", creds.Expiry.Format(time.RFC3339))

	var fresh *domain.Credentials
	var err error
	backoff := refreshBackoff
	for attempt := 1; attempt <= refreshAttempts; attempt++ {
		fresh, err = r.exchanger.Refresh(ctx, r.app, creds.RefreshToken)
		if err == nil {
			break
		}
		if errors.Is(err, domain.ErrReauthRequired) {
			// Revoked or expired grant: retrying cannot help.
			return nil, err
		}
		if !errors.Is(err, domain.ErrTransient) || attempt == refreshAttempts {
			return nil, fmt.Errorf("refreshing access token: %w", err)
		}
		logger.Warn("transient refresh failure (attempt %d/%d): %v", attempt, refreshAttempts, err)
		if serr := r.sleep(ctx, backoff); serr != nil {
			return nil, serr
		}
		backoff *= 2
	}

	// Access token and expiry move together; refresh token and scope set
	// are carried over from the prior grant, never changed by a refresh.
	updated := creds.Clone()
	updated.AccessToken = fresh.AccessToken
	updated.Expiry = fresh.Expiry
	if fresh.TokenType != "" {
		updated.TokenType = fresh.TokenType
	}

	if err := updated.Validate(); err != nil {
		return nil, fmt.Errorf("refresh produced invalid credentials: %w", err)
	}
	if err := r.store.Save(ctx, *updated); err != nil {
		return nil, fmt.Errorf("persisting refreshed credentials: %w", err)
	}
	logger.Debug("access token refreshed, new expiry %s", updated.Expiry.Format(time.RFC3339))
	return updated, nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
