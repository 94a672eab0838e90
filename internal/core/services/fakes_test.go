package services

import (
	"context"
	"sync"
	"time"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
)

func testApp() domain.ClientApp {
	return domain.ClientApp{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		AuthURL:      "https://accounts.example.com/auth",
		TokenURL:     "https://accounts.example.com/token",
		RedirectURIs: []string{"http://localhost"},
		Scopes:       []string{"https://www.googleapis.com/auth/spreadsheets.readonly"},
	}
}

func testCreds(expiry time.Time) *domain.Credentials {
	return &domain.Credentials{
		Version:      domain.CredentialsVersion,
		AccessToken:  "access-1",
		RefreshToken: "refresh-1",
		TokenType:    "Bearer",
		Scopes:       []string{"https://www.googleapis.com/auth/spreadsheets.readonly"},
		Expiry:       expiry,
	}
}

// fakeStore is an in-memory CredentialsStore recording saves.
type fakeStore struct {
	mu      sync.Mutex
	creds   *domain.Credentials
	saves   int
	deletes int
	loadErr error
	saveErr error
}

var _ driven.CredentialsStore = (*fakeStore)(nil)

func (s *fakeStore) Load(context.Context) (*domain.Credentials, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	if s.creds == nil {
		return nil, domain.ErrCredentialsNotFound
	}
	return s.creds.Clone(), nil
}

func (s *fakeStore) Save(_ context.Context, creds domain.Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.creds = creds.Clone()
	return nil
}

func (s *fakeStore) Delete(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes++
	s.creds = nil
	return nil
}

func (s *fakeStore) saved() *domain.Credentials {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.creds == nil {
		return nil
	}
	return s.creds.Clone()
}

func (s *fakeStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// fakeExchanger scripts token endpoint behaviour. refreshErrs is consumed
// one error per call; nil entries (and calls past the end) succeed.
type fakeExchanger struct {
	mu sync.Mutex

	exchangeCreds *domain.Credentials
	exchangeErr   error
	exchangeCalls int
	lastCode      string
	lastVerifier  string
	lastRedirect  string

	refreshCreds  *domain.Credentials
	refreshErrs   []error
	refreshCalls  int
	lastRefreshTk string
}

var _ driven.TokenExchanger = (*fakeExchanger)(nil)

func (e *fakeExchanger) ExchangeCode(_ context.Context, _ domain.ClientApp, code, redirectURI, codeVerifier string) (*domain.Credentials, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.exchangeCalls++
	e.lastCode = code
	e.lastVerifier = codeVerifier
	e.lastRedirect = redirectURI
	if e.exchangeErr != nil {
		return nil, e.exchangeErr
	}
	return e.exchangeCreds.Clone(), nil
}

func (e *fakeExchanger) Refresh(_ context.Context, _ domain.ClientApp, refreshToken string) (*domain.Credentials, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	call := e.refreshCalls
	e.refreshCalls++
	e.lastRefreshTk = refreshToken
	if call < len(e.refreshErrs) && e.refreshErrs[call] != nil {
		return nil, e.refreshErrs[call]
	}
	return e.refreshCreds.Clone(), nil
}

func (e *fakeExchanger) refreshCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.refreshCalls
}

// fakeListener delivers a scripted callback outcome.
type fakeListener struct {
	code     string
	waitErr  error
	started  bool
	stopped  bool
	startErr error
}

var _ driven.CallbackListener = (*fakeListener)(nil)

func (l *fakeListener) Start() error {
	if l.startErr != nil {
		return l.startErr
	}
	l.started = true
	return nil
}

func (l *fakeListener) WaitForCode(ctx context.Context) (string, error) {
	if l.waitErr != nil {
		return "", l.waitErr
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}
	return l.code, nil
}

func (l *fakeListener) Stop() error {
	l.stopped = true
	return nil
}

func (l *fakeListener) RedirectURI() string {
	return "http://localhost:9999/callback"
}

// fakeBrowser records the URL it was asked to open.
type fakeBrowser struct {
	url     string
	openErr error
}

var _ driven.Browser = (*fakeBrowser)(nil)

func (b *fakeBrowser) Open(url string) error {
	b.url = url
	return b.openErr
}
