// Package interviews persists interview results and gateway user accounts in
// SQLite.
//
// The Store manages the database connection, schema initialization, and busy
// retries. Interview records are append-only: each finished practice session
// inserts exactly one row and history reads return a user's records newest
// first. User rows back the gateway's signup/login routes.
//
// Schema changes bump the version in schema.go; operators delete the database
// to adopt the new schema.
package interviews
