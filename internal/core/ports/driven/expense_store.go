package driven

import (
	"context"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

// ExpenseStore caches extracted expense rows locally so summaries do not
// refetch the spreadsheet.
type ExpenseStore interface {
	// Replace removes all cached rows for the spreadsheet and inserts the
	// given ones in a single transaction.
	Replace(ctx context.Context, spreadsheetID string, expenses []domain.Expense) error

	// List returns the cached rows for a spreadsheet, ordered by date.
	List(ctx context.Context, spreadsheetID string) ([]domain.Expense, error)

	// Close releases the underlying database.
	Close() error
}
