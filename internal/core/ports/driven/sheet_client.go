package driven

import "context"

// SheetTab is one tab of a spreadsheet.
type SheetTab struct {
	GID   int64
	Title string
}

// SheetClient fetches spreadsheet content. PublicCSV works without
// authentication; Tabs and Values require an authorized client and surface
// provider failures already mapped onto the domain taxonomy.
type SheetClient interface {
	// PublicCSV downloads the public CSV export of one tab. Fails for
	// private spreadsheets; callers fall back to the authenticated API.
	PublicCSV(ctx context.Context, spreadsheetID string, gid int64) ([][]string, error)

	// Tabs lists the spreadsheet's tabs via the authenticated API.
	Tabs(ctx context.Context, spreadsheetID string) ([]SheetTab, error)

	// Values reads all cell values of the named tab via the authenticated API.
	Values(ctx context.Context, spreadsheetID, tabTitle string) ([][]string, error)
}
