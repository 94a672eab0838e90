// Package file provides file-based configuration adapters.
//
// Adapters:
//   - ConfigStore: TOML-based application settings
//   - LoadClientApp: Google OAuth client descriptor (client_secret.json)
package file
