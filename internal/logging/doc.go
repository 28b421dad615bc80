// Package logging assembles structured slog loggers and formatting helpers used
// across PrepAI.
//
// It owns the configurable console/JSON handlers, centralizes level, output and
// rotation plumbing, and exposes context-aware helpers so session and gateway
// code can tag log lines with session IDs, user identities, stream names, and
// correlation IDs. The package also provides a no-op logger for tests and
// wiring code that cannot fail.
package logging
