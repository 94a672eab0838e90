// Package services holds the application core: the consent flow, token
// refresher, auth orchestration, and spreadsheet extraction. Services
// implement the driving ports and talk to the outside world only through
// the driven ports, so every collaborator can be faked in tests.
package services
