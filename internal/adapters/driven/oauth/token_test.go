package oauth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

func testApp(tokenURL string) domain.ClientApp {
	return domain.ClientApp{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthURL:      "https://accounts.example.com/auth",
		TokenURL:     tokenURL,
		Scopes:       []string{"https://www.googleapis.com/auth/spreadsheets.readonly"},
	}
}

func TestExchangeCode(t *testing.T) {
	var gotForm map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		gotForm = map[string]string{
			"grant_type":    r.PostFormValue("grant_type"),
			"code":          r.PostFormValue("code"),
			"code_verifier": r.PostFormValue("code_verifier"),
			"redirect_uri":  r.PostFormValue("redirect_uri"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"access_token": "at-1",
			"refresh_token": "rt-1",
			"token_type": "Bearer",
			"expires_in": 3600,
			"scope": "https://www.googleapis.com/auth/spreadsheets.readonly"
		}`))
	}))
	defer srv.Close()

	creds, err := NewExchanger().ExchangeCode(
		context.Background(), testApp(srv.URL),
		"auth-code", "http://localhost:1234/callback", "verifier")
	require.NoError(t, err)

	assert.Equal(t, "authorization_code", gotForm["grant_type"])
	assert.Equal(t, "auth-code", gotForm["code"])
	assert.Equal(t, "verifier", gotForm["code_verifier"])
	assert.Equal(t, "http://localhost:1234/callback", gotForm["redirect_uri"])

	assert.Equal(t, domain.CredentialsVersion, creds.Version)
	assert.Equal(t, "at-1", creds.AccessToken)
	assert.Equal(t, "rt-1", creds.RefreshToken)
	assert.Equal(t, "Bearer", creds.TokenType)
	assert.Equal(t, []string{"https://www.googleapis.com/auth/spreadsheets.readonly"}, creds.Scopes)
	assert.True(t, creds.Expiry.After(time.Now().Add(50*time.Minute)))
}

func TestExchangeCode_NoRefreshToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "at-1", "token_type": "Bearer", "expires_in": 3600}`))
	}))
	defer srv.Close()

	_, err := NewExchanger().ExchangeCode(
		context.Background(), testApp(srv.URL), "code", "http://localhost/callback", "")
	assert.Error(t, err)
}

func TestRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostFormValue("grant_type"))
		assert.Equal(t, "rt-1", r.PostFormValue("refresh_token"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "at-2", "token_type": "Bearer", "expires_in": 3600}`))
	}))
	defer srv.Close()

	creds, err := NewExchanger().Refresh(context.Background(), testApp(srv.URL), "rt-1")
	require.NoError(t, err)

	assert.Equal(t, "at-2", creds.AccessToken)
	// Refresh keeps the input refresh token; Google does not rotate it.
	assert.Equal(t, "rt-1", creds.RefreshToken)
	assert.True(t, creds.Expiry.After(time.Now()))
}

func TestRefresh_InvalidGrant(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": "invalid_grant", "error_description": "Token has been revoked."}`))
	}))
	defer srv.Close()

	_, err := NewExchanger().Refresh(context.Background(), testApp(srv.URL), "revoked")
	assert.ErrorIs(t, err, domain.ErrReauthRequired)
	assert.False(t, IsRetryable(err))
}

func TestRefresh_ServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := NewExchanger().Refresh(context.Background(), testApp(srv.URL), "rt-1")
	assert.ErrorIs(t, err, domain.ErrTransient)
	assert.True(t, IsRetryable(err))
}

func TestRefresh_NetworkErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close() // connection refused from here on

	_, err := NewExchanger().Refresh(context.Background(), testApp(srv.URL), "rt-1")
	assert.ErrorIs(t, err, domain.ErrTransient)
}
