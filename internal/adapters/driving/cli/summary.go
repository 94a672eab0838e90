package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	configfile "github.com/ledgerlane/sheetspend/internal/adapters/driven/config/file"
	"github.com/ledgerlane/sheetspend/internal/core/services"
)

var summaryCmd = &cobra.Command{
	Use:   "summary [sheet-url]",
	Short: "Show the monthly summary from the local cache",
	Long: `Print the monthly expense summary from the locally cached rows of the
last extraction, without fetching the spreadsheet again. Run
'sheetspend extract' first to populate the cache.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
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

	ref, err := services.ParseSheetURL(sheetURL)
	if err != nil {
		return err
	}

	summary, err := extractService.Summary(context.Background(), ref.SpreadsheetID)
	if err != nil {
		return fmt.Errorf("reading cached summary: %w", err)
	}
	if len(summary) == 0 {
		cmd.Println("No cached expenses. Run: sheetspend extract")
		return nil
	}

	cmd.Println("Month     Count       Total")
	for _, m := range summary {
		cmd.Printf("%s %7d %11.2f\n", m.Month, m.Count, m.Total)
	}
	return nil
}
