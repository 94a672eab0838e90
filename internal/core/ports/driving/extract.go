package driving

import (
	"context"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

// ExtractResult is what one extraction run produced.
type ExtractResult struct {
	SpreadsheetID string
	SheetTitle    string
	// PublicCSV is true when the rows came from the public CSV export
	// rather than the authenticated API.
	PublicCSV bool
	Expenses  []domain.Expense
	Summary   []domain.MonthlySummary
}

// ExtractService fetches a spreadsheet and turns it into expense rows.
type ExtractService interface {
	// Extract resolves the sheet URL, fetches the rows (public CSV first,
	// authenticated API when the sheet is private), parses them, and caches
	// the result.
	Extract(ctx context.Context, sheetURL string) (*ExtractResult, error)

	// Summary returns the cached monthly summary for a spreadsheet.
	Summary(ctx context.Context, spreadsheetID string) ([]domain.MonthlySummary, error)
}
