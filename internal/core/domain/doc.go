// Package domain holds the value types and error taxonomy shared by every
// layer of sheetspend:
//
//   - Credentials: the persisted OAuth token record for the single user
//   - ClientApp: the operator-supplied OAuth application descriptor
//   - Expense and MonthlySummary: parsed spreadsheet rows and their rollup
//
// The package imports only the standard library. Everything else in the
// repository depends on domain, never the other way around.
package domain
