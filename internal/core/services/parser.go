package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

// Column keyword sets for header detection. Portuguese-language sheets are
// the common case, English variants are accepted too.
var (
	amountKeywords = []string{
		"valor", "preco", "custo", "gasto", "despesa", "total",
		"amount", "price", "cost", "expense",
	}
	dateKeywords = []string{
		"data", "date", "dia", "emissao", "lancamento", "competencia", "vencimento",
	}
	descriptionKeywords = []string{
		"descricao", "description", "item", "produto", "servico",
		"nome", "name", "titulo", "title", "categoria", "category", "tipo", "empresa", "cliente",
	}
)

// accentReplacer folds the accented characters seen in Portuguese sheet
// headers so keyword matching works on either spelling.
var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "õ", "o", "ô", "o",
	"ú", "u",
	"ç", "c",
)

func normalizeHeader(s string) string {
	return accentReplacer.Replace(strings.ToLower(strings.TrimSpace(s)))
}

func findColumn(headers []string, keywords []string) int {
	for i, h := range headers {
		hn := normalizeHeader(h)
		for _, kw := range keywords {
			if strings.Contains(hn, kw) {
				return i
			}
		}
	}
	return -1
}

var nonMoneyChars = regexp.MustCompile(`[^\d,.]`)

// ParseMoney parses a currency cell in Brazilian format ("R$ 1.234,56",
// "1.234,56", "123,45") as well as plain decimals ("123.45"). Parentheses
// or a leading/trailing minus mark a negative value. Empty cells and
// placeholder text parse as zero.
func ParseMoney(value string) (float64, bool) {
	s := strings.TrimSpace(value)
	switch s {
	case "", "-", "N/A", "n/a", "Por Consumo":
		return 0, true
	}

	negative := strings.Contains(s, "(") && strings.Contains(s, ")")
	if strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") {
		negative = true
	}

	clean := nonMoneyChars.ReplaceAllString(s, "")
	if clean == "" || clean == "." || clean == "," {
		return 0, true
	}

	switch {
	case strings.Contains(clean, ",") && strings.Contains(clean, "."):
		// Brazilian: dot is the thousands separator, comma the decimal.
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	case strings.Contains(clean, ","):
		parts := strings.Split(clean, ",")
		if len(parts) == 2 && len(parts[1]) <= 2 {
			clean = parts[0] + "." + parts[1]
		} else {
			clean = strings.ReplaceAll(clean, ",", "")
		}
	}

	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	if negative {
		v = -v
	}
	return v, true
}

var cellDateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2006/01/02",
	"2006-01-02",
	"01/2006",
	"2006-01",
}

// ParseCellDate parses the date formats found in expense sheets. Day-first
// formats are tried before ISO ones; month-only values resolve to the first
// of the month.
func ParseCellDate(value string) (time.Time, bool) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range cellDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// ParseExpenses turns raw sheet rows into expense records. The first row is
// the header; amount, date, and description columns are located by keyword.
// Rows with no parseable amount are skipped; rows with an unparseable date
// keep a zero Date and are excluded from monthly grouping downstream.
// Returns nil when no amount column can be identified.
func ParseExpenses(spreadsheetID string, rows [][]string) []domain.Expense {
	if len(rows) < 2 {
		return nil
	}
	headers := rows[0]

	amountCol := findColumn(headers, amountKeywords)
	if amountCol < 0 {
		amountCol = guessAmountColumn(rows)
	}
	if amountCol < 0 {
		return nil
	}
	dateCol := findColumn(headers, dateKeywords)
	descCol := findColumn(headers, descriptionKeywords)

	var expenses []domain.Expense
	for i, row := range rows[1:] {
		amount, ok := cellMoney(row, amountCol)
		if !ok {
			continue
		}
		e := domain.Expense{
			SpreadsheetID: spreadsheetID,
			Amount:        amount,
			Row:           i + 2, // 1-based, after the header row
		}
		if dateCol >= 0 && dateCol < len(row) {
			if d, ok := ParseCellDate(row[dateCol]); ok {
				e.Date = d
			}
		}
		if descCol >= 0 && descCol < len(row) {
			e.Description = strings.TrimSpace(row[descCol])
		}
		expenses = append(expenses, e)
	}
	return expenses
}

func cellMoney(row []string, col int) (float64, bool) {
	if col < 0 || col >= len(row) {
		return 0, false
	}
	if strings.TrimSpace(row[col]) == "" {
		return 0, false
	}
	return ParseMoney(row[col])
}

// guessAmountColumn samples the first rows and picks the column where a
// majority of non-empty cells parse as money. Used when no header keyword
// matches.
func guessAmountColumn(rows [][]string) int {
	const sample = 10
	limit := len(rows)
	if limit > sample+1 {
		limit = sample + 1
	}
	width := len(rows[0])
	for col := 0; col < width; col++ {
		numeric, total := 0, 0
		for _, row := range rows[1:limit] {
			if col >= len(row) || strings.TrimSpace(row[col]) == "" {
				continue
			}
			total++
			if v, ok := ParseMoney(row[col]); ok && v != 0 {
				numeric++
			}
		}
		if total > 0 && numeric*2 > total {
			return col
		}
	}
	return -1
}
