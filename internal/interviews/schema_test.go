package interviews

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepai.db")

	store, err := OpenPath(path)
	if err != nil {
		t.Fatalf("OpenPath: %v", err)
	}
	if _, err := store.db.Exec("PRAGMA user_version = 9"); err != nil {
		t.Fatalf("set version: %v", err)
	}
	store.Close()

	if _, err := OpenPath(path); !errors.Is(err, ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepai.db")
	for i := 0; i < 2; i++ {
		store, err := OpenPath(path)
		if err != nil {
			t.Fatalf("OpenPath #%d: %v", i+1, err)
		}
		store.Close()
	}
}
