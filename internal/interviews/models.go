package interviews

import (
	"fmt"
	"time"

	"prepai/internal/services"
)

var (
	// ErrEmailTaken is returned when signing up with an email that already exists.
	ErrEmailTaken = fmt.Errorf("%w: User already exists", services.ErrConflict)
	// ErrUserNotFound is returned when a user lookup matches no row.
	ErrUserNotFound = fmt.Errorf("%w: User not found", services.ErrNotFound)
)

// Scores holds the six canonical 0-100 session scores.
type Scores struct {
	Confidence      float64
	Attention       float64
	Stability       float64
	Smoothness      float64
	AudioConfidence float64
	AnswerQuality   float64
}

// Answer is an optional per-question rating stored with a record.
type Answer struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Rating   string `json:"rating,omitempty"`
}

// Record is one persisted interview result.
type Record struct {
	ID        int64
	UserID    string
	Duration  int
	Scores    Scores
	Answers   []Answer
	CreatedAt time.Time
}

// User is a gateway account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
