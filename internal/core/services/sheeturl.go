package services

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/ledgerlane/sheetspend/internal/core/domain"
)

// SheetRef identifies one spreadsheet and, optionally, one tab within it.
type SheetRef struct {
	SpreadsheetID string
	GID           int64
	HasGID        bool
}

var (
	sheetIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`),
		regexp.MustCompile(`key=([a-zA-Z0-9-_]+)`),
		regexp.MustCompile(`id=([a-zA-Z0-9-_]+)`),
	}
	gidPattern = regexp.MustCompile(`gid=([0-9]+)`)
)

// ParseSheetURL extracts the spreadsheet ID and optional tab gid from a
// Google Sheets URL. Accepts the canonical /spreadsheets/d/<id> form plus
// the legacy key= and id= query forms.
func ParseSheetURL(sheetURL string) (SheetRef, error) {
	var ref SheetRef
	for _, p := range sheetIDPatterns {
		if m := p.FindStringSubmatch(sheetURL); m != nil {
			ref.SpreadsheetID = m[1]
			break
		}
	}
	if ref.SpreadsheetID == "" {
		return SheetRef{}, fmt.Errorf("%w: no spreadsheet ID in URL %q", domain.ErrInvalidInput, sheetURL)
	}
	if m := gidPattern.FindStringSubmatch(sheetURL); m != nil {
		gid, err := strconv.ParseInt(m[1], 10, 64)
		if err == nil {
			ref.GID = gid
			ref.HasGID = true
		}
	}
	return ref, nil
}
