package stream

import (
	"context"
	"encoding/base64"

	"github.com/gorilla/websocket"
)

const jpegDataURLPrefix = "data:image/jpeg;base64,"

// Visual is a connection to the visual analysis stream.
type Visual struct {
	c *conn
}

// DialVisual connects to the visual analysis stream at url.
func DialVisual(ctx context.Context, dialer *websocket.Dialer, url string) (*Visual, error) {
	c, err := dial(ctx, dialer, "visual-stream", url)
	if err != nil {
		return nil, err
	}
	return &Visual{c: c}, nil
}

// SendFrame sends one JPEG frame as a data URL.
func (v *Visual) SendFrame(jpeg []byte) error {
	buf := make([]byte, len(jpegDataURLPrefix)+base64.StdEncoding.EncodedLen(len(jpeg)))
	copy(buf, jpegDataURLPrefix)
	base64.StdEncoding.Encode(buf[len(jpegDataURLPrefix):], jpeg)
	return v.c.writeText(buf)
}

// Stop asks the service for its final report.
func (v *Visual) Stop() error {
	return v.c.writeText([]byte(StopVisual))
}

// Read blocks for the next message. Malformed frames return a decode error
// and leave the connection usable.
func (v *Visual) Read() (VisualMessage, error) {
	raw, err := v.c.readText()
	if err != nil {
		return VisualMessage{}, err
	}
	return DecodeVisual(raw)
}

// Close closes the connection.
func (v *Visual) Close() error {
	return v.c.close()
}
