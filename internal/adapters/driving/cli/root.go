// Package cli implements the sheetspend command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driving"
	"github.com/ledgerlane/sheetspend/internal/logger"
)

// version is set by SetVersion before Execute.
var version = "dev"

// Services injected by the composition root in cmd/sheetspend.
var (
	authService    driving.AuthService
	extractService driving.ExtractService
	configStore    driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "sheetspend",
	Short: "Extract expense data from Google Sheets",
	Long: `sheetspend pulls expense rows out of a Google Sheets spreadsheet and
summarises them by month.

Public spreadsheets are read without any login. Private spreadsheets use a
one-time browser authorization; the grant is stored locally and renewed
automatically.

Examples:
  # Extract from a public or private spreadsheet
  sheetspend extract "https://docs.google.com/spreadsheets/d/.../edit"

  # Authorize ahead of time
  sheetspend login

  # Show authorization state
  sheetspend status

  # Remove the stored grant
  sheetspend logout`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
}

// SetServices injects the application services. Must be called before
// Execute.
func SetServices(auth driving.AuthService, extract driving.ExtractService, config driven.ConfigStore) {
	authService = auth
	extractService = extract
	configStore = config
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
