package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	configfile "github.com/ledgerlane/sheetspend/internal/adapters/driven/config/file"
	oauthclient "github.com/ledgerlane/sheetspend/internal/adapters/driven/oauth"
	filestorage "github.com/ledgerlane/sheetspend/internal/adapters/driven/storage/file"
	"github.com/ledgerlane/sheetspend/internal/adapters/driven/storage/sqlite"
	"github.com/ledgerlane/sheetspend/internal/adapters/driving/cli"
	oauthcallback "github.com/ledgerlane/sheetspend/internal/adapters/driving/oauth"
	"github.com/ledgerlane/sheetspend/internal/connectors/google"
	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driving"
	"github.com/ledgerlane/sheetspend/internal/core/services"
	"github.com/ledgerlane/sheetspend/internal/logger"
	gsheets "google.golang.org/api/sheets/v4"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configDir, err := resolveConfigDir()
	if err != nil {
		return fmt.Errorf("resolving config directory: %w", err)
	}

	configStore, err := configfile.NewConfigStore(configDir)
	if err != nil {
		return fmt.Errorf("opening config store: %w", err)
	}

	credStore, err := filestorage.NewCredentialsStore(configDir)
	if err != nil {
		return fmt.Errorf("opening credentials store: %w", err)
	}

	expenseStore, err := sqlite.NewExpenseStore(configDir)
	if err != nil {
		return fmt.Errorf("opening expense cache: %w", err)
	}
	defer expenseStore.Close()

	ctx := context.Background()

	auth, appErr := buildAuthService(configDir, configStore, credStore)

	var sheetsService *gsheets.Service
	if auth != nil {
		ts := google.NewTokenSource(ctx, auth)
		sheetsService, err = google.NewSheetsService(ctx, ts)
		if err != nil {
			return fmt.Errorf("creating sheets service: %w", err)
		}
	} else {
		// No OAuth client descriptor: public CSV extraction still works,
		// anything needing the API reports the configuration error.
		logger.Debug("OAuth client not configured: %v", appErr)
	}
	sheetClient := google.NewSheetClient(sheetsService)

	extractor := services.NewExtractor(sheetClient, expenseStore, configStore.GetString(configfile.KeySheetTab))

	var authForCLI driving.AuthService
	if auth != nil {
		authForCLI = auth
	} else {
		authForCLI = unconfiguredAuth{err: appErr}
	}

	cli.SetServices(authForCLI, extractor, configStore)
	cli.SetVersion(Version)
	return cli.Execute()
}

// buildAuthService wires the credential lifecycle. Returns a nil service
// (with the cause) when the OAuth client descriptor is absent or invalid.
func buildAuthService(configDir string, configStore driven.ConfigStore, credStore driven.CredentialsStore) (*services.AuthService, error) {
	appPath, err := configfile.ClientAppPath(configDir)
	if err != nil {
		return nil, err
	}
	app, err := configfile.LoadClientApp(appPath)
	if err != nil {
		return nil, err
	}

	timeout := services.DefaultConsentTimeout
	if secs := configStore.GetInt(configfile.KeyConsentTimeoutSeconds); secs > 0 {
		timeout = time.Duration(secs) * time.Second
	}

	exchanger := oauthclient.NewExchanger()
	consent := services.NewConsentFlow(
		exchanger,
		&oauthcallback.SystemBrowser{},
		func(state string) driven.CallbackListener {
			return oauthcallback.NewCallbackServer(0, state)
		},
		timeout,
	)
	refresher := services.NewRefresher(*app, credStore, exchanger)

	return services.NewAuthService(*app, credStore, consent, refresher), nil
}

// unconfiguredAuth reports the client descriptor problem on every
// operation instead of failing at startup, so public-sheet extraction
// keeps working without any Google Cloud setup.
type unconfiguredAuth struct {
	err error
}

var _ driving.AuthService = unconfiguredAuth{}

func (a unconfiguredAuth) Login(context.Context) (*domain.Credentials, error) {
	return nil, a.err
}

func (a unconfiguredAuth) Logout(context.Context) error {
	return a.err
}

func (a unconfiguredAuth) Status(context.Context) (*domain.Credentials, error) {
	if errors.Is(a.err, domain.ErrClientAppMissing) {
		return nil, domain.ErrCredentialsNotFound
	}
	return nil, a.err
}

func resolveConfigDir() (string, error) {
	if dir := os.Getenv("SHEETSPEND_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".sheetspend"), nil
}
