// Package driving declares the entry-point interfaces the CLI commands
// call into. The implementations live in internal/core/services; the CLI
// depends only on these interfaces so commands can be tested with fakes.
package driving
