package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
	"github.com/ledgerlane/sheetspend/internal/core/ports/driving"
	"github.com/ledgerlane/sheetspend/internal/logger"
)

// DefaultSheetTab is the tab extraction prefers when the URL does not pin
// one by gid.
const DefaultSheetTab = "Despesas"

var _ driving.ExtractService = (*Extractor)(nil)

// Extractor fetches a spreadsheet, parses expense rows out of it, and
// caches them locally. The public CSV export is tried first so public
// sheets never require a login; private sheets fall back to the
// authenticated API.
type Extractor struct {
	sheets       driven.SheetClient
	cache        driven.ExpenseStore
	preferredTab string
}

// NewExtractor creates the extraction service. An empty preferredTab means
// DefaultSheetTab.
func NewExtractor(sheets driven.SheetClient, cache driven.ExpenseStore, preferredTab string) *Extractor {
	if preferredTab == "" {
		preferredTab = DefaultSheetTab
	}
	return &Extractor{
		sheets:       sheets,
		cache:        cache,
		preferredTab: preferredTab,
	}
}

// Extract resolves the sheet URL, fetches rows, parses expenses, and
// replaces the local cache for that spreadsheet.
func (e *Extractor) Extract(ctx context.Context, sheetURL string) (*driving.ExtractResult, error) {
	ref, err := ParseSheetURL(sheetURL)
	if err != nil {
		return nil, err
	}
	logger.Section("Extraction")
	logger.Info("spreadsheet %s", ref.SpreadsheetID)

	result := &driving.ExtractResult{SpreadsheetID: ref.SpreadsheetID}

	rows, err := e.fetchPublic(ctx, ref)
	if err == nil {
		result.PublicCSV = true
	} else {
		logger.Debug("public CSV unavailable (%v), using authenticated API", err)
		rows, result.SheetTitle, err = e.fetchAuthenticated(ctx, ref)
		if err != nil {
			return nil, err
		}
	}

	expenses := ParseExpenses(ref.SpreadsheetID, rows)
	if expenses == nil {
		return nil, fmt.Errorf("%w: no expense value column found in sheet", domain.ErrInvalidInput)
	}
	if err := e.cache.Replace(ctx, ref.SpreadsheetID, expenses); err != nil {
		return nil, fmt.Errorf("caching expenses: %w", err)
	}

	result.Expenses = expenses
	result.Summary = domain.Summarise(expenses)
	logger.Info("extracted %d expenses across %d months", len(expenses), len(result.Summary))
	return result, nil
}

// Summary returns the monthly summary computed over the cached rows.
func (e *Extractor) Summary(ctx context.Context, spreadsheetID string) ([]domain.MonthlySummary, error) {
	expenses, err := e.cache.List(ctx, spreadsheetID)
	if err != nil {
		return nil, err
	}
	return domain.Summarise(expenses), nil
}

func (e *Extractor) fetchPublic(ctx context.Context, ref SheetRef) ([][]string, error) {
	var gid int64
	if ref.HasGID {
		gid = ref.GID
	}
	rows, err := e.sheets.PublicCSV(ctx, ref.SpreadsheetID, gid)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("public CSV export is empty")
	}
	return rows, nil
}

// fetchAuthenticated reads via the Sheets API. Tab choice: the gid pinned
// in the URL wins, otherwise the preferred tab by title, otherwise the
// first tab.
func (e *Extractor) fetchAuthenticated(ctx context.Context, ref SheetRef) ([][]string, string, error) {
	tabs, err := e.sheets.Tabs(ctx, ref.SpreadsheetID)
	if err != nil {
		return nil, "", fmt.Errorf("listing sheet tabs: %w", err)
	}
	if len(tabs) == 0 {
		return nil, "", fmt.Errorf("spreadsheet has no tabs")
	}

	title := e.chooseTab(tabs, ref)
	logger.Info("reading tab %q", title)
	rows, err := e.sheets.Values(ctx, ref.SpreadsheetID, title)
	if err != nil {
		return nil, "", fmt.Errorf("reading tab %q: %w", title, err)
	}
	if len(rows) < 2 {
		return nil, "", fmt.Errorf("tab %q has no data rows", title)
	}
	return rows, title, nil
}

func (e *Extractor) chooseTab(tabs []driven.SheetTab, ref SheetRef) string {
	if ref.HasGID {
		for _, t := range tabs {
			if t.GID == ref.GID {
				return t.Title
			}
		}
		logger.Warn("tab gid=%d not found, falling back to tab selection by title", ref.GID)
	}
	for _, t := range tabs {
		if strings.EqualFold(strings.TrimSpace(t.Title), e.preferredTab) {
			return t.Title
		}
	}
	return tabs[0].Title
}
