// Package auth issues and verifies the gateway's credential tokens and hashes
// account passwords.
//
// Tokens are HS256 JWTs whose payload nests the account ID as
// {"user":{"id":...}}, matching what session clients decode to resolve their
// identity.
package auth
