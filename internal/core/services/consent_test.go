package services

import (
	"context"
	"io"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
)

func newConsentFlow(exchanger *fakeExchanger, listener *fakeListener, browser *fakeBrowser) *ConsentFlow {
	flow := NewConsentFlow(exchanger, browser, func(string) driven.CallbackListener {
		return listener
	}, time.Second)
	flow.SetOutput(io.Discard)
	return flow
}

func TestConsentFlowSuccess(t *testing.T) {
	exchanger := &fakeExchanger{exchangeCreds: testCreds(time.Now().Add(time.Hour))}
	listener := &fakeListener{code: "auth-code"}
	browser := &fakeBrowser{}
	flow := newConsentFlow(exchanger, listener, browser)

	creds, err := flow.Run(context.Background(), testApp())
	require.NoError(t, err)
	require.NotNil(t, creds)
	assert.True(t, creds.HasRefreshToken())

	assert.Equal(t, "auth-code", exchanger.lastCode)
	assert.Equal(t, listener.RedirectURI(), exchanger.lastRedirect)
	assert.NotEmpty(t, exchanger.lastVerifier)
	assert.True(t, listener.started)
	assert.True(t, listener.stopped, "listener must be released on success")
}

func TestConsentFlowAuthURL(t *testing.T) {
	exchanger := &fakeExchanger{exchangeCreds: testCreds(time.Now().Add(time.Hour))}
	listener := &fakeListener{code: "auth-code"}
	browser := &fakeBrowser{}
	flow := newConsentFlow(exchanger, listener, browser)

	_, err := flow.Run(context.Background(), testApp())
	require.NoError(t, err)

	parsed, err := url.Parse(browser.url)
	require.NoError(t, err)
	q := parsed.Query()
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-id", q.Get("client_id"))
	assert.Equal(t, listener.RedirectURI(), q.Get("redirect_uri"))
	assert.Equal(t, "S256", q.Get("code_challenge_method"))
	assert.NotEmpty(t, q.Get("code_challenge"))
	assert.NotEmpty(t, q.Get("state"))
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.True(t, strings.Contains(q.Get("scope"), "spreadsheets.readonly"))
}

func TestConsentFlowDenied(t *testing.T) {
	exchanger := &fakeExchanger{}
	listener := &fakeListener{waitErr: domain.ErrConsentDenied}
	flow := newConsentFlow(exchanger, listener, &fakeBrowser{})

	_, err := flow.Run(context.Background(), testApp())
	require.ErrorIs(t, err, domain.ErrConsentDenied)
	assert.Zero(t, exchanger.exchangeCalls, "denied flow must not exchange")
	assert.True(t, listener.stopped, "listener must be released on failure")
}

func TestConsentFlowStateMismatch(t *testing.T) {
	exchanger := &fakeExchanger{}
	listener := &fakeListener{waitErr: domain.ErrStateMismatch}
	flow := newConsentFlow(exchanger, listener, &fakeBrowser{})

	_, err := flow.Run(context.Background(), testApp())
	require.ErrorIs(t, err, domain.ErrStateMismatch)
	assert.Zero(t, exchanger.exchangeCalls, "mismatched state must never be exchanged")
}

func TestConsentFlowTimeout(t *testing.T) {
	exchanger := &fakeExchanger{}
	listener := &fakeListener{waitErr: domain.ErrConsentTimeout}
	flow := newConsentFlow(exchanger, listener, &fakeBrowser{})

	_, err := flow.Run(context.Background(), testApp())
	require.ErrorIs(t, err, domain.ErrConsentTimeout)
	assert.True(t, listener.stopped)
}

func TestConsentFlowBrowserFailureNotFatal(t *testing.T) {
	exchanger := &fakeExchanger{exchangeCreds: testCreds(time.Now().Add(time.Hour))}
	listener := &fakeListener{code: "auth-code"}
	browser := &fakeBrowser{openErr: assert.AnError}
	flow := newConsentFlow(exchanger, listener, browser)

	creds, err := flow.Run(context.Background(), testApp())
	require.NoError(t, err, "printed URL is the fallback when the browser cannot open")
	assert.NotNil(t, creds)
}

func TestConsentFlowInvalidApp(t *testing.T) {
	flow := newConsentFlow(&fakeExchanger{}, &fakeListener{}, &fakeBrowser{})

	_, err := flow.Run(context.Background(), domain.ClientApp{})
	require.ErrorIs(t, err, domain.ErrClientAppInvalid)
}

func TestConsentFlowListenerStartFailure(t *testing.T) {
	listener := &fakeListener{startErr: assert.AnError}
	flow := newConsentFlow(&fakeExchanger{}, listener, &fakeBrowser{})

	_, err := flow.Run(context.Background(), testApp())
	require.Error(t, err)
}
