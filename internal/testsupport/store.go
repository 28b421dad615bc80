package testsupport

import (
	"context"
	"testing"
	"time"

	"prepai/internal/config"
	"prepai/internal/interviews"
)

// MustOpenStore opens an interviews.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *interviews.Store {
	t.Helper()

	store, err := interviews.Open(cfg)
	if err != nil {
		t.Fatalf("interviews.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// SaveRecord inserts a record for userID created at the given time.
func SaveRecord(t testing.TB, store *interviews.Store, userID string, created time.Time, scores interviews.Scores) *interviews.Record {
	t.Helper()

	rec, err := store.Save(context.Background(), interviews.Record{
		UserID:    userID,
		Duration:  60,
		Scores:    scores,
		CreatedAt: created,
	})
	if err != nil {
		t.Fatalf("store.Save: %v", err)
	}
	return rec
}
