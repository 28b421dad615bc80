package api

import (
	"strconv"
	"time"

	"prepai/internal/interviews"
)

// FromRecord converts a stored interview into its transport form.
func FromRecord(rec interviews.Record) InterviewRecord {
	out := InterviewRecord{
		ID:       strconv.FormatInt(rec.ID, 10),
		UserID:   rec.UserID,
		Duration: rec.Duration,
		Scores: Scores{
			Confidence:      rec.Scores.Confidence,
			Attention:       rec.Scores.Attention,
			Stability:       rec.Scores.Stability,
			Smoothness:      rec.Scores.Smoothness,
			AudioConfidence: rec.Scores.AudioConfidence,
			AnswerQuality:   rec.Scores.AnswerQuality,
		},
		Date: formatTime(rec.CreatedAt),
	}
	for _, a := range rec.Answers {
		out.Answers = append(out.Answers, Answer{Question: a.Question, Answer: a.Answer, Rating: a.Rating})
	}
	return out
}

// FromRecords converts a slice of stored interviews preserving order.
func FromRecords(records []interviews.Record) []InterviewRecord {
	out := make([]InterviewRecord, 0, len(records))
	for _, rec := range records {
		out = append(out, FromRecord(rec))
	}
	return out
}

// ToRecord converts a save request into a storable record.
func (r SaveRequest) ToRecord() interviews.Record {
	rec := interviews.Record{
		UserID:   r.UserID,
		Duration: r.Duration,
		Scores: interviews.Scores{
			Confidence:      r.Scores.Confidence,
			Attention:       r.Scores.Attention,
			Stability:       r.Scores.Stability,
			Smoothness:      r.Scores.Smoothness,
			AudioConfidence: r.Scores.AudioConfidence,
			AnswerQuality:   r.Scores.AnswerQuality,
		},
	}
	for _, a := range r.Answers {
		rec.Answers = append(rec.Answers, interviews.Answer{Question: a.Question, Answer: a.Answer, Rating: a.Rating})
	}
	return rec
}

// FromUser converts an account into a profile without its password hash.
func FromUser(user interviews.User) UserProfile {
	return UserProfile{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
		Date:  formatTime(user.CreatedAt),
	}
}

// ParseDate parses a timestamp produced by the gateway. Unparseable values
// yield the zero time.
func ParseDate(value string) time.Time {
	for _, layout := range []string{dateTimeFormat, time.RFC3339Nano} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts
		}
	}
	return time.Time{}
}

func formatTime(ts time.Time) string {
	if ts.IsZero() {
		return ""
	}
	return ts.UTC().Format(dateTimeFormat)
}
