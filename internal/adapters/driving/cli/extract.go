package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/ledgerlane/sheetspend/internal/adapters/driven/config/file"
	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driving"
)

var extractSave bool

var extractCmd = &cobra.Command{
	Use:   "extract [sheet-url]",
	Short: "Extract expenses from a spreadsheet",
	Long: `Fetch a spreadsheet, parse its expense rows, and print a monthly summary.

The URL argument is optional once a default has been saved with --save.
Public spreadsheets are fetched via the CSV export without any login;
private spreadsheets use the stored authorization (running the browser
consent flow first if needed).

Examples:
  sheetspend extract "https://docs.google.com/spreadsheets/d/.../edit"
  sheetspend extract --save "https://docs.google.com/spreadsheets/d/.../edit#gid=7"
  sheetspend extract`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().BoolVar(&extractSave, "save", false, "Save the URL as the default for future runs")
	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	if extractService == nil {
		return errors.New("extract service not configured")
	}

	sheetURL := ""
	if len(args) == 1 {
		sheetURL = args[0]
	}
	if sheetURL == "" && configStore != nil {
		sheetURL = configStore.GetString(configfile.KeySheetURL)
	}
	if sheetURL == "" {
		return errors.New("no sheet URL given and none saved; run: sheetspend extract --save <url>")
	}

	result, err := extractService.Extract(context.Background(), sheetURL)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrReauthRequired):
			return errors.New("authorization has been revoked or expired; run: sheetspend login")
		case errors.Is(err, domain.ErrForbidden):
			return errors.New("your account has no access to this spreadsheet")
		case errors.Is(err, domain.ErrRateLimited):
			return errors.New("Google API rate limit exceeded; try again in a minute")
		}
		return fmt.Errorf("extraction failed: %w", err)
	}

	if extractSave && len(args) == 1 && configStore != nil {
		if err := configStore.Set(configfile.KeySheetURL, sheetURL); err != nil {
			return fmt.Errorf("saving default URL: %w", err)
		}
		cmd.Println("Saved as default spreadsheet.")
	}

	printResult(cmd, result)
	return nil
}

func printResult(cmd *cobra.Command, result *driving.ExtractResult) {
	source := "authenticated API"
	if result.PublicCSV {
		source = "public CSV export"
	}
	cmd.Printf("Spreadsheet %s (%s)\n", result.SpreadsheetID, source)
	if result.SheetTitle != "" {
		cmd.Printf("Tab: %s\n", result.SheetTitle)
	}
	cmd.Printf("Expenses: %d\n\n", len(result.Expenses))

	if len(result.Summary) == 0 {
		cmd.Println("No dated expenses to summarise.")
		return
	}

	cmd.Println("Month     Count       Total")
	for _, m := range result.Summary {
		cmd.Printf("%s %7d %11.2f\n", m.Month, m.Count, m.Total)
	}
}
