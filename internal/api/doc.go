// Package api defines wire-format types and converters for the persistence
// gateway's HTTP API. It translates internal interview and user models into
// transport DTOs shared by the gateway daemon and its client.
//
// # Key Types
//
// SaveRequest: the body of POST /interviews/save, {userId, duration, scores}.
//
// InterviewRecord: one history entry as returned by the gateway.
//
// TokenResponse/UserProfile: auth route payloads.
//
// # Design Notes
//
// DTOs use camelCase JSON tags for browser consumers. Record and user IDs are
// exposed under "_id" and timestamps use RFC3339 with milliseconds.
package api
