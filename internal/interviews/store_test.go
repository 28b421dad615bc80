package interviews_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"prepai/internal/interviews"
	"prepai/internal/services"
	"prepai/internal/testsupport"
)

func TestSaveAndHistoryNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	testsupport.SaveRecord(t, store, "user-1", base, interviews.Scores{Confidence: 50})
	testsupport.SaveRecord(t, store, "user-1", base.Add(2*time.Hour), interviews.Scores{Confidence: 70})
	testsupport.SaveRecord(t, store, "user-1", base.Add(time.Hour), interviews.Scores{Confidence: 60})
	testsupport.SaveRecord(t, store, "user-2", base.Add(3*time.Hour), interviews.Scores{Confidence: 99})

	history, err := store.History(ctx, "user-1")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 records, got %d", len(history))
	}
	got := []float64{history[0].Scores.Confidence, history[1].Scores.Confidence, history[2].Scores.Confidence}
	if diff := cmp.Diff([]float64{70, 60, 50}, got); diff != "" {
		t.Fatalf("unexpected order (-want +got):\n%s", diff)
	}

	count, err := store.Count(ctx, "user-2")
	if err != nil || count != 1 {
		t.Fatalf("expected 1 record for user-2, got %d (%v)", count, err)
	}
}

func TestSaveRoundTripsScoresAndAnswers(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	in := interviews.Record{
		UserID:   "guest_1700000000000",
		Duration: 125,
		Scores: interviews.Scores{
			Confidence: 65, Attention: 80, Stability: 60,
			Smoothness: 70, AudioConfidence: 58, AnswerQuality: 90,
		},
		Answers: []interviews.Answer{{Question: "Tell me about yourself", Rating: "Good"}},
	}
	saved, err := store.Save(ctx, in)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if saved.ID == 0 || saved.CreatedAt.IsZero() {
		t.Fatalf("expected id and timestamp, got %#v", saved)
	}

	history, err := store.History(ctx, in.UserID)
	if err != nil || len(history) != 1 {
		t.Fatalf("History: %v (%d records)", err, len(history))
	}
	if diff := cmp.Diff(in.Scores, history[0].Scores); diff != "" {
		t.Fatalf("scores mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(in.Answers, history[0].Answers); diff != "" {
		t.Fatalf("answers mismatch (-want +got):\n%s", diff)
	}
	if history[0].Duration != 125 {
		t.Fatalf("unexpected duration %d", history[0].Duration)
	}
}

func TestSaveRequiresUserID(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	if _, err := store.Save(context.Background(), interviews.Record{}); err == nil {
		t.Fatal("expected error for missing user id")
	}
}

func TestHistoryEmpty(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	history, err := store.History(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 0 {
		t.Fatalf("expected no records, got %d", len(history))
	}
}

func TestUsers(t *testing.T) {
	store := testsupport.MustOpenStore(t, testsupport.NewConfig(t))
	ctx := context.Background()

	user, err := store.CreateUser(ctx, "Ada", "ada@example.com", "hash")
	if err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected generated id")
	}

	if _, err := store.CreateUser(ctx, "Ada 2", "ADA@example.com", "hash"); !errors.Is(err, interviews.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if _, err := store.UserByID(ctx, "missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found marker, got %v", err)
	}

	updated, err := store.UpdateUser(ctx, user.ID, "Ada Lovelace", "")
	if err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	if updated.Name != "Ada Lovelace" || updated.Email != "ada@example.com" {
		t.Fatalf("unexpected update result %#v", updated)
	}

	byEmail, err := store.UserByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("UserByEmail failed: %v", err)
	}
	if byEmail.Name != "Ada Lovelace" || byEmail.PasswordHash != "hash" {
		t.Fatalf("unexpected stored user %#v", byEmail)
	}
}

func TestReopenKeepsSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	first, err := interviews.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	testsupport.SaveRecord(t, first, "user-1", time.Now(), interviews.Scores{})
	first.Close()

	second := testsupport.MustOpenStore(t, cfg)
	count, err := second.Count(context.Background(), "user-1")
	if err != nil || count != 1 {
		t.Fatalf("expected persisted record after reopen, got %d (%v)", count, err)
	}
}
