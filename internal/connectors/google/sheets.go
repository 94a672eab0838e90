package google

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"golang.org/x/oauth2"

	"github.com/ledgerlane/sheetspend/internal/core/ports/driven"
)

const publicExportBase = "https://docs.google.com"

// NewSheetsService creates a Sheets API service using the provided TokenSource.
func NewSheetsService(ctx context.Context, ts oauth2.TokenSource) (*sheets.Service, error) {
	return sheets.NewService(ctx, option.WithTokenSource(ts))
}

var _ driven.SheetClient = (*SheetClient)(nil)

// SheetClient implements the SheetClient port over the Sheets v4 API plus
// the unauthenticated public CSV export. API errors come back classified
// onto the domain taxonomy.
type SheetClient struct {
	service *sheets.Service
	http    *http.Client
	limiter *RateLimiter

	// exportBase is swapped in tests.
	exportBase string
}

// NewSheetClient wraps a Sheets service. A nil service is allowed; then
// only PublicCSV works and API calls fail with a clear error.
func NewSheetClient(service *sheets.Service) *SheetClient {
	return &SheetClient{
		service:    service,
		http:       &http.Client{Timeout: 30 * time.Second},
		limiter:    NewRateLimiter(),
		exportBase: publicExportBase,
	}
}

// PublicCSV downloads the public CSV export of one tab. gid zero selects
// the spreadsheet's first tab. Private spreadsheets answer with a redirect
// to a login page or a non-200 status; both surface as errors so callers
// fall back to the authenticated API.
func (c *SheetClient) PublicCSV(ctx context.Context, spreadsheetID string, gid int64) ([][]string, error) {
	exportURL := fmt.Sprintf("%s/spreadsheets/d/%s/export?format=csv", c.exportBase, spreadsheetID)
	if gid > 0 {
		exportURL += "&gid=" + strconv.FormatInt(gid, 10)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, Classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("public CSV export returned status %d", resp.StatusCode)
	}
	// A private sheet redirects to the HTML login page with status 200.
	if ct := resp.Header.Get("Content-Type"); ct != "" && !isCSVContentType(ct) {
		return nil, fmt.Errorf("public CSV export returned %s, spreadsheet is not public", ct)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse CSV export: %w", err)
	}
	return rows, nil
}

func isCSVContentType(ct string) bool {
	return strings.HasPrefix(ct, "text/csv")
}

// Tabs lists the spreadsheet's tabs via the authenticated API.
func (c *SheetClient) Tabs(ctx context.Context, spreadsheetID string) ([]driven.SheetTab, error) {
	if c.service == nil {
		return nil, errors.New("sheets API service not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	ss, err := c.service.Spreadsheets.Get(spreadsheetID).
		Fields("sheets.properties.sheetId", "sheets.properties.title").
		Context(ctx).Do()
	if err != nil {
		return nil, c.classify(err)
	}

	tabs := make([]driven.SheetTab, 0, len(ss.Sheets))
	for _, s := range ss.Sheets {
		if s.Properties == nil {
			continue
		}
		tabs = append(tabs, driven.SheetTab{
			GID:   s.Properties.SheetId,
			Title: s.Properties.Title,
		})
	}
	return tabs, nil
}

// Values reads all cell values of the named tab via the authenticated API.
func (c *SheetClient) Values(ctx context.Context, spreadsheetID, tabTitle string) ([][]string, error) {
	if c.service == nil {
		return nil, errors.New("sheets API service not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	rangeName := fmt.Sprintf("'%s'!A:Z", tabTitle)
	resp, err := c.service.Spreadsheets.Values.Get(spreadsheetID, rangeName).
		Context(ctx).Do()
	if err != nil {
		return nil, c.classify(err)
	}

	rows := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, 0, len(row))
		for _, cell := range row {
			cells = append(cells, fmt.Sprint(cell))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

// classify maps the API error and feeds 429 backoff into the limiter.
func (c *SheetClient) classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusTooManyRequests {
		c.limiter.RecordRateLimitError(retryAfterSeconds(gerr))
	}
	return Classify(err)
}

func retryAfterSeconds(gerr *googleapi.Error) int {
	if gerr.Header == nil {
		return 0
	}
	if v := gerr.Header.Get("Retry-After"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil {
			return secs
		}
	}
	return 0
}
