package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

func newTestExpenseStore(t *testing.T) *ExpenseStore {
	t.Helper()
	store, err := NewExpenseStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestReplaceAndList(t *testing.T) {
	store := newTestExpenseStore(t)
	ctx := context.Background()

	jan := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	feb := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.Replace(ctx, "sheet-1", []domain.Expense{
		{SpreadsheetID: "sheet-1", Date: feb, Description: "internet", Amount: 99.9, Row: 3},
		{SpreadsheetID: "sheet-1", Date: jan, Description: "rent", Amount: 1200, Row: 2},
		{SpreadsheetID: "sheet-1", Description: "undated", Amount: 5, Row: 7},
	}))

	got, err := store.List(ctx, "sheet-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Dated rows first, by date; undated last.
	assert.Equal(t, "rent", got[0].Description)
	assert.Equal(t, jan, got[0].Date)
	assert.Equal(t, "internet", got[1].Description)
	assert.Equal(t, "undated", got[2].Description)
	assert.True(t, got[2].Date.IsZero())

	// Every row got an ID assigned.
	for _, e := range got {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, "sheet-1", e.SpreadsheetID)
	}
}

func TestReplace_DropsOldRows(t *testing.T) {
	store := newTestExpenseStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "sheet-1", []domain.Expense{
		{Description: "old", Amount: 1, Row: 2},
	}))
	require.NoError(t, store.Replace(ctx, "sheet-1", []domain.Expense{
		{Description: "new", Amount: 2, Row: 2},
	}))

	got, err := store.List(ctx, "sheet-1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Description)
}

func TestReplace_ScopedToSpreadsheet(t *testing.T) {
	store := newTestExpenseStore(t)
	ctx := context.Background()

	require.NoError(t, store.Replace(ctx, "sheet-1", []domain.Expense{{Description: "a", Amount: 1}}))
	require.NoError(t, store.Replace(ctx, "sheet-2", []domain.Expense{{Description: "b", Amount: 2}}))

	one, err := store.List(ctx, "sheet-1")
	require.NoError(t, err)
	two, err := store.List(ctx, "sheet-2")
	require.NoError(t, err)

	require.Len(t, one, 1)
	require.Len(t, two, 1)
	assert.Equal(t, "a", one[0].Description)
	assert.Equal(t, "b", two[0].Description)
}

func TestList_EmptyCache(t *testing.T) {
	store := newTestExpenseStore(t)

	got, err := store.List(context.Background(), "missing")
	require.NoError(t, err)
	assert.Empty(t, got)
}
