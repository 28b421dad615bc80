// Package gateway is the HTTP client for the persistence gateway served by
// prepaid.
//
// The client saves finalized interview records, reads a user's history, and
// drives the account routes used by the CLI login flow. Non-2xx responses
// are converted into services errors so callers can classify them.
package gateway
