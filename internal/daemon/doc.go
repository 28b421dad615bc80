// Package daemon coordinates the long-running persistence gateway process.
//
// It wires configuration, the interviews store, token issuing, and the HTTP
// API into a single lifecycle with flock-based locking to prevent multiple
// instances. Routes cover saving a finished interview, reading a user's history
// newest first, and the account routes session clients use to obtain a
// credential token.
//
// Keep orchestration and HTTP concerns here; storage semantics live in the
// interviews package and token handling in auth.
package daemon
