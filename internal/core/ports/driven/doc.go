// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - CredentialsStore: persisted OAuth token material
//   - TokenExchanger: authorization-code and refresh-token exchanges
//   - CallbackListener: loopback redirect endpoint for the consent flow
//   - Browser: hands the authorization URL to the user
//   - ConfigStore: application configuration
//
// # Optional Interfaces
//
//   - ExpenseStore: local cache of extracted expense rows; without it
//     every extraction refetches the spreadsheet
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
