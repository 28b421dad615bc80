// Package services defines shared utilities consumed by the session client,
// the gateway daemon, and their external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp session IDs, user identities, stream names,
//     and correlation identifiers for logging.
//   - Structured error markers plus the Wrap helper so transport, decode,
//     device, persistence, and identity failures can be classified (logged
//     and degraded on the client, mapped to status codes on the gateway).
//
// Use these helpers when wiring new components so operational behaviour stays
// uniform across the client and the daemon.
package services
