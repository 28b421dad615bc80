package session

import "time"

// ChatRole identifies the speaker of a chat entry.
type ChatRole string

const (
	RoleAI   ChatRole = "ai"
	RoleUser ChatRole = "user"
)

// ChatEntry is one line of the interview transcript.
type ChatEntry struct {
	Role ChatRole
	Text string
	At   time.Time
}

// Snapshot is a point-in-time copy of the session for display.
type Snapshot struct {
	SessionID       string
	UserID          string
	State           State
	Elapsed         int
	Recording       bool
	CameraOn        bool
	EndRequested    bool
	Visual          VisualScores
	AudioConfidence float64
	AudioMean       int
	AudioSamples    int
	AnswerQuality   float64
	Chat            []ChatEntry
	FramesSent      int64
	FramesDropped   int64
}

func (c *Controller) snapshot() Snapshot {
	return Snapshot{
		SessionID:       c.sessionID,
		UserID:          c.userID,
		State:           c.state,
		Elapsed:         c.clock.Elapsed(),
		Recording:       c.recording,
		CameraOn:        c.cameraOn,
		EndRequested:    c.endRequested,
		Visual:          c.last,
		AudioConfidence: c.lastAudio,
		AudioMean:       c.aggregator.Mean(),
		AudioSamples:    c.aggregator.Count(),
		AnswerQuality:   c.answerQuality,
		Chat:            append([]ChatEntry(nil), c.chat...),
		FramesSent:      c.framesSent.Load(),
		FramesDropped:   c.framesDropped.Load(),
	}
}
