package domain

import (
	"sort"
	"time"
)

// Expense is one parsed row from the expense tab of the spreadsheet.
type Expense struct {
	// ID is the unique identifier (UUID), assigned when the row is cached.
	ID string `json:"id"`
	// SpreadsheetID identifies the spreadsheet the row came from.
	SpreadsheetID string `json:"spreadsheet_id"`
	// Date is the expense date. May be zero when the row had no parseable
	// date; such rows are excluded from monthly grouping.
	Date time.Time `json:"date"`
	// Description is the free-text description column value.
	Description string `json:"description"`
	// Amount is the expense value in the sheet's currency.
	Amount float64 `json:"amount"`
	// Row is the 1-based source row in the sheet, kept for diagnostics.
	Row int `json:"row"`
}

// MonthKey returns the grouping key "YYYY-MM", or "" when Date is zero.
func (e *Expense) MonthKey() string {
	if e.Date.IsZero() {
		return ""
	}
	return e.Date.Format("2006-01")
}

// MonthlySummary aggregates expenses for one month.
type MonthlySummary struct {
	Month string  `json:"month"` // "YYYY-MM"
	Total float64 `json:"total"`
	Count int     `json:"count"`
}

// Summarise groups expenses by month key. Rows without a date are skipped.
// The result is sorted by month ascending.
func Summarise(expenses []Expense) []MonthlySummary {
	byMonth := make(map[string]*MonthlySummary)
	var order []string
	for i := range expenses {
		key := expenses[i].MonthKey()
		if key == "" {
			continue
		}
		s, ok := byMonth[key]
		if !ok {
			s = &MonthlySummary{Month: key}
			byMonth[key] = s
			order = append(order, key)
		}
		s.Total += expenses[i].Amount
		s.Count++
	}
	sort.Strings(order)
	out := make([]MonthlySummary, 0, len(order))
	for _, key := range order {
		out = append(out, *byMonth[key])
	}
	return out
}
