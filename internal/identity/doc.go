// Package identity resolves the user id a session is recorded under.
//
// A stored credential token is decoded (without signature verification; the
// gateway verifies it) and the user id is looked up in a fixed order of claim
// locations. Without a usable token the resolver falls back to a guest id
// that is generated once per tab scope and reused by later sessions in the
// same scope. Credentials and guest ids live in a small bbolt file under the
// data directory.
package identity
