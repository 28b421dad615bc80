package session

import "errors"

// State is the session lifecycle state.
type State int

const (
	StateAwaitingResume State = iota
	StateLive
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateAwaitingResume:
		return "awaiting-resume"
	case StateLive:
		return "live"
	case StateEnded:
		return "ended"
	default:
		return "unknown"
	}
}

var (
	// ErrAlreadyStarted is returned when a resume is supplied twice.
	ErrAlreadyStarted = errors.New("session already started")
	// ErrNotLive is returned by operations that need a live session.
	ErrNotLive = errors.New("session is not live")
	// ErrStopped is returned when the controller loop is not running.
	ErrStopped = errors.New("session controller stopped")
)
