package stream

import (
	"bytes"
	"encoding/json"

	"prepai/internal/services"
)

// Visual stream message types.
const (
	TypeRealtime    = "realtime"
	TypeFinalReport = "final_report"
)

// Audio stream message types.
const (
	TypeQuestion     = "question"
	TypeRealtimeFeed = "realtime_feed"
	TypeEnd          = "end"
)

// VisualMessage is a message from the visual analysis stream. Score fields
// hold whatever JSON value the server sent; nil means the field was absent.
type VisualMessage struct {
	Type       string `json:"type"`
	Confidence any    `json:"confidence,omitempty"`
	Attention  any    `json:"attention,omitempty"`
	Stability  any    `json:"stability,omitempty"`
	Smoothness any    `json:"smoothness,omitempty"`
}

// AnswerScores carries the per-answer evaluation attached to a transcription.
type AnswerScores struct {
	AnswerScore any `json:"answer_score,omitempty"`
}

// AudioMessage is a message from the audio/dialogue stream.
type AudioMessage struct {
	Type              string        `json:"type,omitempty"`
	Text              string        `json:"text,omitempty"`
	Speak             bool          `json:"speak,omitempty"`
	AudioConfidence   any           `json:"audioConfidence,omitempty"`
	UserTranscription string        `json:"user_transcription,omitempty"`
	Scores            *AnswerScores `json:"scores,omitempty"`
}

// AudioKind classifies an AudioMessage.
type AudioKind int

const (
	AudioUnknown AudioKind = iota
	AudioQuestion
	AudioRealtimeFeed
	AudioTranscription
	AudioEnd
)

// Kind reports how the message should be handled. Typed messages win over a
// bare transcription field.
func (m AudioMessage) Kind() AudioKind {
	switch {
	case m.Type == TypeQuestion:
		return AudioQuestion
	case m.Type == TypeRealtimeFeed:
		return AudioRealtimeFeed
	case m.UserTranscription != "":
		return AudioTranscription
	case m.Type == TypeEnd:
		return AudioEnd
	default:
		return AudioUnknown
	}
}

// Seed is the first message sent on the audio stream.
type Seed struct {
	ResumeText     string `json:"resumeText"`
	JobDescription string `json:"jobDescription"`
}

type audioChunk struct {
	Bytes string `json:"bytes"`
}

type audioControl struct {
	Text string `json:"text"`
}

// StopAnswer is the control text that tells the dialogue service the current
// answer is complete.
const StopAnswer = "STOP_ANSWER"

// StopVisual asks the visual service to compute and send its final report.
const StopVisual = "STOP"

var nanToken = []byte("NaN")

// Sanitize rewrites every literal NaN token in raw to 0.
func Sanitize(raw []byte) []byte {
	if !bytes.Contains(raw, nanToken) {
		return raw
	}
	return bytes.ReplaceAll(raw, nanToken, []byte("0"))
}

// DecodeAudio sanitizes and decodes one audio stream frame.
func DecodeAudio(raw []byte) (AudioMessage, error) {
	var msg AudioMessage
	if err := json.Unmarshal(Sanitize(raw), &msg); err != nil {
		return AudioMessage{}, services.Wrap(services.ErrDecode, "audio-stream", "decode", "malformed frame", err)
	}
	return msg, nil
}

// DecodeVisual decodes one visual stream frame.
func DecodeVisual(raw []byte) (VisualMessage, error) {
	var msg VisualMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return VisualMessage{}, services.Wrap(services.ErrDecode, "visual-stream", "decode", "malformed frame", err)
	}
	return msg, nil
}
