package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// Scores carries the six canonical session scores.
type Scores struct {
	Confidence      float64 `json:"confidence"`
	Attention       float64 `json:"attention"`
	Stability       float64 `json:"stability"`
	Smoothness      float64 `json:"smoothness"`
	AudioConfidence float64 `json:"audioConfidence"`
	AnswerQuality   float64 `json:"answerQuality"`
}

// Answer is an optional rated answer attached to a record.
type Answer struct {
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`
	Rating   string `json:"rating,omitempty"`
}

// SaveRequest is the body of the save route.
type SaveRequest struct {
	UserID   string   `json:"userId"`
	Duration int      `json:"duration"`
	Scores   Scores   `json:"scores"`
	Answers  []Answer `json:"answers,omitempty"`
}

// InterviewRecord is a persisted result as returned by save and history.
type InterviewRecord struct {
	ID       string   `json:"_id"`
	UserID   string   `json:"userId"`
	Duration int      `json:"duration"`
	Scores   Scores   `json:"scores"`
	Answers  []Answer `json:"answers,omitempty"`
	Date     string   `json:"date"`
}

// SignupRequest registers a gateway account.
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest exchanges credentials for a token.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateProfileRequest changes name and/or email; empty fields are ignored.
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// TokenResponse carries an issued credential token.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserProfile is an account without its password hash.
type UserProfile struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Date  string `json:"date"`
}

// ErrorResponse is the body of every non-2xx gateway response.
type ErrorResponse struct {
	Error string `json:"error"`
}
