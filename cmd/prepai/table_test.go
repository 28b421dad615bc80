package main

import (
	"strings"
	"testing"
)

func TestRenderTableKeepsHeaderCase(t *testing.T) {
	out := renderTable(
		[]string{"Date", "Attention"},
		[][]string{{"2026-03-01", "80"}, {"2026-03-02"}},
		[]columnAlignment{alignLeft, alignRight},
	)
	requireContains(t, out, "Attention")
	if strings.Contains(out, "ATTENTION") {
		t.Fatalf("header was upper-cased:\n%s", out)
	}
	if got := strings.Count(out, "2026-03-0"); got != 2 {
		t.Fatalf("expected both rows, got %d in:\n%s", got, out)
	}
}

func TestRenderTableWithoutHeaders(t *testing.T) {
	if out := renderTable(nil, [][]string{{"x"}}, nil); out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}
