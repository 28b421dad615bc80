// Package report builds the post-session report from a user's newest
// persisted interview.
package report
