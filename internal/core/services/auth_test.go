package services

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
)

func newTestAuthService(store *fakeStore, exchanger *fakeExchanger, listener *fakeListener) *AuthService {
	flow := NewConsentFlow(exchanger, &fakeBrowser{}, func(string) driven.CallbackListener {
		return listener
	}, time.Second)
	flow.SetOutput(io.Discard)
	refresher := NewRefresher(testApp(), store, exchanger)
	refresher.sleep = func(context.Context, time.Duration) error { return nil }
	return NewAuthService(testApp(), store, flow, refresher)
}

func TestAuthGetFirstRunConsents(t *testing.T) {
	granted := testCreds(time.Now().Add(time.Hour))
	store := &fakeStore{}
	exchanger := &fakeExchanger{exchangeCreds: granted}
	listener := &fakeListener{code: "auth-code"}
	svc := newTestAuthService(store, exchanger, listener)

	creds, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, granted.AccessToken, creds.AccessToken)
	assert.Equal(t, 1, exchanger.exchangeCalls, "empty store triggers one consent flow")
	assert.NotNil(t, store.saved(), "grant must be persisted")
}

func TestAuthGetValidCredentialsSkipConsent(t *testing.T) {
	store := &fakeStore{creds: testCreds(time.Now().Add(time.Hour))}
	exchanger := &fakeExchanger{}
	svc := newTestAuthService(store, exchanger, &fakeListener{})

	creds, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-1", creds.AccessToken)
	assert.Zero(t, exchanger.exchangeCalls)
	assert.Zero(t, exchanger.refreshCount())
}

func TestAuthGetCorruptReconsents(t *testing.T) {
	granted := testCreds(time.Now().Add(time.Hour))
	store := &fakeStore{loadErr: domain.ErrCredentialsCorrupt}
	exchanger := &fakeExchanger{exchangeCreds: granted}
	listener := &fakeListener{code: "auth-code"}
	svc := newTestAuthService(store, exchanger, listener)

	creds, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, granted.AccessToken, creds.AccessToken)
	assert.Equal(t, 1, exchanger.exchangeCalls, "corrupt record falls back to consent")
}

func TestAuthGetExpiredRefreshes(t *testing.T) {
	now := time.Now()
	fresh := testCreds(now.Add(time.Hour))
	fresh.AccessToken = "access-2"
	store := &fakeStore{creds: testCreds(now.Add(-time.Minute))}
	exchanger := &fakeExchanger{refreshCreds: fresh}
	svc := newTestAuthService(store, exchanger, &fakeListener{})

	creds, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-2", creds.AccessToken)
	assert.Zero(t, exchanger.exchangeCalls, "refresh must not run consent")
}

func TestAuthGetRevokedGrantNoConsent(t *testing.T) {
	store := &fakeStore{creds: testCreds(time.Now().Add(-time.Minute))}
	exchanger := &fakeExchanger{refreshErrs: []error{domain.ErrReauthRequired}}
	listener := &fakeListener{code: "auth-code"}
	svc := newTestAuthService(store, exchanger, listener)

	_, err := svc.Get(context.Background())
	require.ErrorIs(t, err, domain.ErrReauthRequired)
	assert.Zero(t, exchanger.exchangeCalls, "revoked grant surfaces an error, never a browser window")
	assert.False(t, listener.started)
}

func TestAuthTokenExposesAccessTokenOnly(t *testing.T) {
	store := &fakeStore{creds: testCreds(time.Now().Add(time.Hour))}
	svc := newTestAuthService(store, &fakeExchanger{}, &fakeListener{})

	token, err := svc.Token(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-1", token)
}

func TestAuthLogout(t *testing.T) {
	store := &fakeStore{creds: testCreds(time.Now().Add(time.Hour))}
	svc := newTestAuthService(store, &fakeExchanger{}, &fakeListener{})

	require.NoError(t, svc.Logout(context.Background()))
	assert.Nil(t, store.saved())

	// Idempotent on an already-clean store.
	require.NoError(t, svc.Logout(context.Background()))
}

func TestAuthStatus(t *testing.T) {
	store := &fakeStore{}
	svc := newTestAuthService(store, &fakeExchanger{}, &fakeListener{})

	_, err := svc.Status(context.Background())
	require.ErrorIs(t, err, domain.ErrCredentialsNotFound)

	store.creds = testCreds(time.Now().Add(time.Hour))
	creds, err := svc.Status(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "access-1", creds.AccessToken)
}

func TestAuthLoginDeniedNotPersisted(t *testing.T) {
	store := &fakeStore{}
	exchanger := &fakeExchanger{}
	listener := &fakeListener{waitErr: domain.ErrConsentDenied}
	svc := newTestAuthService(store, exchanger, listener)

	_, err := svc.Login(context.Background())
	require.ErrorIs(t, err, domain.ErrConsentDenied)
	assert.Nil(t, store.saved())
}
