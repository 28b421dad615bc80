// Package notifications publishes operator alerts to ntfy.
//
// Alerts cover conditions that must be surfaced rather than silently absorbed:
// a session finalized with the guest_error identity sentinel, a result that
// could not be persisted, and gateway-side storage failures. When no topic is
// configured NewService returns a noop implementation, so callers never need
// to check.
package notifications
