package report

import (
	"context"
	"time"

	"prepai/internal/api"
	"prepai/internal/scoring"
	"prepai/internal/services"
)

// HistorySource lists a user's interviews.
type HistorySource interface {
	History(ctx context.Context, userID string) ([]api.InterviewRecord, error)
}

// Metric is one non-verbal score with its feedback line.
type Metric struct {
	Name     string `json:"name"`
	Score    int    `json:"score"`
	Feedback string `json:"feedback"`
}

// Report is the display form of one interview. All scores are 0-100 integers.
type Report struct {
	RecordID            string    `json:"recordId"`
	UserID              string    `json:"userId"`
	Date                time.Time `json:"date"`
	Duration            int       `json:"duration"`
	Success             int       `json:"success"`
	Confidence          int       `json:"confidence"`
	AnswerQuality       int       `json:"answerQuality"`
	StoredAnswerQuality int       `json:"storedAnswerQuality"`
	VoiceConfidence     int       `json:"voiceConfidence"`
	FaceConfidence      int       `json:"faceConfidence"`
	NonVerbal           []Metric  `json:"nonVerbal"`
}

// Latest returns the newest record by date. Records with equal or
// unparseable dates keep their input order.
func Latest(records []api.InterviewRecord) (api.InterviewRecord, bool) {
	if len(records) == 0 {
		return api.InterviewRecord{}, false
	}
	best := 0
	bestDate := api.ParseDate(records[0].Date)
	for i := 1; i < len(records); i++ {
		if d := api.ParseDate(records[i].Date); d.After(bestDate) {
			best, bestDate = i, d
		}
	}
	return records[best], true
}

// Build computes the report for rec. Answer quality comes from the rated
// answers stored with the record; the stored answerQuality score is reported
// separately.
func Build(rec api.InterviewRecord) Report {
	face := scoring.NormalizeRounded(rec.Scores.Confidence)
	voice := scoring.NormalizeRounded(rec.Scores.AudioConfidence)
	attention := scoring.NormalizeRounded(rec.Scores.Attention)
	stability := scoring.NormalizeRounded(rec.Scores.Stability)
	smoothness := scoring.NormalizeRounded(rec.Scores.Smoothness)

	ratings := make([]string, 0, len(rec.Answers))
	for _, a := range rec.Answers {
		ratings = append(ratings, a.Rating)
	}
	answerQuality := scoring.AnswerQuality(ratings)

	return Report{
		RecordID:            rec.ID,
		UserID:              rec.UserID,
		Date:                api.ParseDate(rec.Date),
		Duration:            rec.Duration,
		Success:             scoring.SuccessScore(float64(answerQuality), float64(face), float64(voice)),
		Confidence:          scoring.Round(float64(face+voice) / 2),
		AnswerQuality:       answerQuality,
		StoredAnswerQuality: scoring.NormalizeRounded(rec.Scores.AnswerQuality),
		VoiceConfidence:     voice,
		FaceConfidence:      face,
		NonVerbal: []Metric{
			{Name: "Eye contact", Score: attention, Feedback: threshold(attention, "Great attention", "Look at camera more")},
			{Name: "Posture", Score: stability, Feedback: threshold(stability, "Great stability", "Try to move less")},
			{Name: "Facial expressions", Score: face, Feedback: "Confidence analysis"},
			{Name: "Nervous movements", Score: smoothness, Feedback: "Movement smoothness"},
		},
	}
}

func threshold(score int, good, poor string) string {
	if score > 70 {
		return good
	}
	return poor
}

// Fetch builds the report for userID's newest interview.
func Fetch(ctx context.Context, src HistorySource, userID string) (*Report, error) {
	records, err := src.History(ctx, userID)
	if err != nil {
		return nil, err
	}
	latest, ok := Latest(records)
	if !ok {
		return nil, services.Wrap(services.ErrNotFound, "report", "fetch", "no interviews found for "+userID, nil)
	}
	r := Build(latest)
	return &r, nil
}
