package logs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"prepai/internal/logs"
)

func TestLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepai.log")
	if err := os.WriteFile(path, []byte("a\nb\nc\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}

	tests := []struct {
		n    int
		want []string
	}{
		{n: 2, want: []string{"b", "c"}},
		{n: 5, want: []string{"a", "b", "c"}},
		{n: 0, want: nil},
	}
	for _, tt := range tests {
		lines, offset, err := logs.Last(path, tt.n)
		if err != nil {
			t.Fatalf("Last(%d): %v", tt.n, err)
		}
		if !slices.Equal(lines, tt.want) {
			t.Fatalf("Last(%d) = %#v, want %#v", tt.n, lines, tt.want)
		}
		if offset != 6 {
			t.Fatalf("Last(%d) offset = %d, want 6", tt.n, offset)
		}
	}
}

func TestLastMissingFile(t *testing.T) {
	lines, offset, err := logs.Last(filepath.Join(t.TempDir(), "missing.log"), 10)
	if err != nil || lines != nil || offset != 0 {
		t.Fatalf("expected empty result, got %v %d %v", lines, offset, err)
	}
}

type collector struct {
	mu    sync.Mutex
	lines []string
}

func (c *collector) add(line string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, line)
}

func (c *collector) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}

func waitForLines(t *testing.T, c *collector, want []string) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if slices.Equal(c.snapshot(), want) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("lines = %#v, want %#v", c.snapshot(), want)
}

func TestFollowAppendAndRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepaid.log")
	if err := os.WriteFile(path, []byte("start\n"), 0o644); err != nil {
		t.Fatalf("write log: %v", err)
	}
	_, offset, err := logs.Last(path, 1)
	if err != nil {
		t.Fatalf("Last: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	got := &collector{}
	done := make(chan error, 1)
	go func() { done <- logs.Follow(ctx, path, offset, 10*time.Millisecond, got.add) }()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatalf("open append: %v", err)
	}
	if _, err := f.WriteString("later\npart"); err != nil {
		t.Fatalf("append: %v", err)
	}
	waitForLines(t, got, []string{"later"})
	if _, err := f.WriteString("ial\n"); err != nil {
		t.Fatalf("append: %v", err)
	}
	_ = f.Close()
	waitForLines(t, got, []string{"later", "partial"})

	if err := os.WriteFile(path, []byte("new\n"), 0o644); err != nil {
		t.Fatalf("rotate: %v", err)
	}
	waitForLines(t, got, []string{"later", "partial", "new"})

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
