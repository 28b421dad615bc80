package report

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"prepai/internal/api"
	"prepai/internal/services"
)

func TestLatestPicksNewestDate(t *testing.T) {
	records := []api.InterviewRecord{
		{ID: "a", Date: "2026-03-01T10:00:00.000Z"},
		{ID: "b", Date: "2026-03-02T10:00:00.000Z"},
		{ID: "c", Date: "2026-02-28T10:00:00.000Z"},
	}
	got, ok := Latest(records)
	if !ok || got.ID != "b" {
		t.Fatalf("expected b, got %+v", got)
	}
	if _, ok := Latest(nil); ok {
		t.Fatal("expected no record for empty history")
	}
}

func TestBuildNormalizesAndScores(t *testing.T) {
	rec := api.InterviewRecord{
		ID:       "7",
		UserID:   "user-1",
		Duration: 125,
		Date:     "2026-03-01T10:00:00.000Z",
		Scores: api.Scores{
			Confidence:      0.65,
			Attention:       80,
			Stability:       0.6,
			Smoothness:      70,
			AudioConfidence: 58,
			AnswerQuality:   90,
		},
		Answers: []api.Answer{{Rating: "Good"}, {Rating: "needs improvement"}, {Rating: "average"}},
	}
	got := Build(rec)

	if got.FaceConfidence != 65 || got.VoiceConfidence != 58 {
		t.Fatalf("unexpected confidences %d/%d", got.FaceConfidence, got.VoiceConfidence)
	}
	if got.AnswerQuality != 70 {
		t.Fatalf("expected answer quality 70, got %d", got.AnswerQuality)
	}
	if got.StoredAnswerQuality != 90 {
		t.Fatalf("expected stored answer quality 90, got %d", got.StoredAnswerQuality)
	}
	// round(0.7*70 + 0.3*(65+58)/2) = round(49 + 18.45) = 67
	if got.Success != 67 {
		t.Fatalf("expected success 67, got %d", got.Success)
	}
	if got.Confidence != 62 {
		t.Fatalf("expected confidence 62, got %d", got.Confidence)
	}
	wantNonVerbal := []Metric{
		{Name: "Eye contact", Score: 80, Feedback: "Great attention"},
		{Name: "Posture", Score: 60, Feedback: "Try to move less"},
		{Name: "Facial expressions", Score: 65, Feedback: "Confidence analysis"},
		{Name: "Nervous movements", Score: 70, Feedback: "Movement smoothness"},
	}
	if diff := cmp.Diff(wantNonVerbal, got.NonVerbal); diff != "" {
		t.Fatalf("non-verbal mismatch (-want +got):\n%s", diff)
	}
}

func TestBuildWithoutAnswersDefaults(t *testing.T) {
	got := Build(api.InterviewRecord{Scores: api.Scores{Confidence: 65, AudioConfidence: 58}})
	if got.AnswerQuality != 70 {
		t.Fatalf("expected default 70, got %d", got.AnswerQuality)
	}
	if got.Success != 67 {
		t.Fatalf("expected success 67, got %d", got.Success)
	}
}

type historyFunc func(context.Context, string) ([]api.InterviewRecord, error)

func (f historyFunc) History(ctx context.Context, userID string) ([]api.InterviewRecord, error) {
	return f(ctx, userID)
}

func TestFetchEmptyHistory(t *testing.T) {
	src := historyFunc(func(context.Context, string) ([]api.InterviewRecord, error) {
		return []api.InterviewRecord{}, nil
	})
	if _, err := Fetch(context.Background(), src, "guest_1"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
