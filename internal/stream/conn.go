package stream

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"prepai/internal/services"
)

const closeGrace = time.Second

// ErrClosed is returned by Read once the connection has been closed normally
// by either side.
var ErrClosed = errors.New("stream closed")

// conn wraps a websocket connection with a write lock; gorilla allows only
// one concurrent writer.
type conn struct {
	name string
	ws   *websocket.Conn

	writeMu sync.Mutex
	closeMu sync.Once
}

func dial(ctx context.Context, dialer *websocket.Dialer, name, url string) (*conn, error) {
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	ws, resp, err := dialer.DialContext(ctx, url, http.Header{})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, services.Wrap(services.ErrTransport, name, "dial", url, err)
	}
	return &conn{name: name, ws: ws}, nil
}

func (c *conn) writeText(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
		return services.Wrap(services.ErrTransport, c.name, "write", "", err)
	}
	return nil
}

func (c *conn) readText() ([]byte, error) {
	for {
		kind, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) || errors.Is(err, net.ErrClosed) {
				return nil, ErrClosed
			}
			return nil, services.Wrap(services.ErrTransport, c.name, "read", "", err)
		}
		if kind == websocket.TextMessage || kind == websocket.BinaryMessage {
			return data, nil
		}
	}
}

// close sends a normal closure frame and closes the socket. Safe to call twice.
func (c *conn) close() error {
	var err error
	c.closeMu.Do(func() {
		c.writeMu.Lock()
		_ = c.ws.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(closeGrace))
		c.writeMu.Unlock()
		if cerr := c.ws.Close(); cerr != nil {
			err = fmt.Errorf("close %s stream: %w", c.name, cerr)
		}
	})
	return err
}
