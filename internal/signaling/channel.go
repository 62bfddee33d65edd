// Package signaling maintains the duplex websocket connection to the
// relay. A Channel supports exactly one concurrent reader and one
// concurrent writer; the session owns both loops.
package signaling

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
)

// SendError reports a frame that could not be written, typically because
// the connection is closed. The frame is dropped, not retried.
type SendError struct {
	Err error
}

func (e *SendError) Error() string { return fmt.Sprintf("send frame: %v", e.Err) }

func (e *SendError) Unwrap() error { return e.Err }

type Channel struct {
	conn *websocket.Conn
}

// Connect dials the relay websocket endpoint. No retry is performed at
// this layer; reconnection policy belongs to the caller.
func Connect(ctx context.Context, url string) (*Channel, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial relay %s: %w", url, err)
	}
	return &Channel{conn: conn}, nil
}

// Read blocks until the next inbound frame arrives. It returns an error
// once the connection closes or errors; the sequence is not restartable.
func (c *Channel) Read() ([]byte, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("read frame: %w", err)
	}
	return data, nil
}

// Send writes one text frame.
func (c *Channel) Send(data []byte) error {
	if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
		return &SendError{Err: err}
	}
	return nil
}

func (c *Channel) Close() error {
	return c.conn.Close()
}
