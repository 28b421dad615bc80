package session

import (
	"context"

	"github.com/gorilla/websocket"

	"prepai/internal/config"
	"prepai/internal/stream"
)

// VisualStream is the client side of the visual analysis stream.
type VisualStream interface {
	SendFrame(jpeg []byte) error
	Stop() error
	Read() (stream.VisualMessage, error)
	Close() error
}

// AudioStream is the client side of the audio/dialogue stream. The seed is
// sent by the opener.
type AudioStream interface {
	SendChunk(data []byte) error
	SendStopAnswer() error
	Read() (stream.AudioMessage, error)
	Close() error
}

// Streams opens the two analysis streams.
type Streams interface {
	OpenVisual(ctx context.Context) (VisualStream, error)
	OpenAudio(ctx context.Context, seed stream.Seed) (AudioStream, error)
}

// WebSocketStreams opens the streams over WebSocket.
type WebSocketStreams struct {
	VideoURL string
	AudioURL string
	Dialer   *websocket.Dialer
}

// NewWebSocketStreams returns streams for the configured endpoints.
func NewWebSocketStreams(cfg *config.Config) *WebSocketStreams {
	return &WebSocketStreams{VideoURL: cfg.Streams.VideoURL, AudioURL: cfg.Streams.AudioURL}
}

func (w *WebSocketStreams) OpenVisual(ctx context.Context) (VisualStream, error) {
	v, err := stream.DialVisual(ctx, w.Dialer, w.VideoURL)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (w *WebSocketStreams) OpenAudio(ctx context.Context, seed stream.Seed) (AudioStream, error) {
	a, err := stream.DialAudio(ctx, w.Dialer, w.AudioURL, seed)
	if err != nil {
		return nil, err
	}
	return a, nil
}
