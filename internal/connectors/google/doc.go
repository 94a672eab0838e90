// Package google provides the Google Sheets API integration.
//
// This package contains:
//   - TokenSource adapter bridging the TokenProvider port to oauth2.TokenSource
//   - A Sheets API client implementing the SheetClient port, including the
//     unauthenticated public CSV export path
//   - Error classification mapping Google API errors (401, 403, 429, 5xx)
//     onto the domain error taxonomy
//   - Rate limiting to respect Google API quotas
//
// # Usage
//
//	ts := google.NewTokenSource(ctx, tokenProvider)
//	svc, err := google.NewSheetsService(ctx, ts)
//	client := google.NewSheetClient(svc)
//
// # OAuth2 Scopes
//
// The Sheets client uses a single read-only scope:
//   - https://www.googleapis.com/auth/spreadsheets.readonly (sensitive)
package google
