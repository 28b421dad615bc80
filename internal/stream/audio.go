package stream

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
)

// Audio is a connection to the audio/dialogue stream.
type Audio struct {
	c *conn
}

// DialAudio connects to the dialogue stream at url and sends seed as the
// first message.
func DialAudio(ctx context.Context, dialer *websocket.Dialer, url string, seed Seed) (*Audio, error) {
	c, err := dial(ctx, dialer, "audio-stream", url)
	if err != nil {
		return nil, err
	}
	a := &Audio{c: c}
	if err := a.writeJSON(seed); err != nil {
		_ = c.close()
		return nil, err
	}
	return a, nil
}

// SendChunk sends one recorded audio slice.
func (a *Audio) SendChunk(data []byte) error {
	return a.writeJSON(audioChunk{Bytes: base64.StdEncoding.EncodeToString(data)})
}

// SendStopAnswer marks the end of the current answer.
func (a *Audio) SendStopAnswer() error {
	return a.writeJSON(audioControl{Text: StopAnswer})
}

// Read blocks for the next message. NaN tokens are sanitized first; frames
// that still fail to decode return a decode error and leave the connection
// usable.
func (a *Audio) Read() (AudioMessage, error) {
	raw, err := a.c.readText()
	if err != nil {
		return AudioMessage{}, err
	}
	return DecodeAudio(raw)
}

// Close closes the connection.
func (a *Audio) Close() error {
	return a.c.close()
}

func (a *Audio) writeJSON(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode audio message: %w", err)
	}
	return a.c.writeText(data)
}
