package websocket

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Client is one live websocket connection for an authenticated user.
type Client struct {
	ID     string
	UserID uuid.UUID
	conn   *websocket.Conn
	send   chan []byte

	mu       sync.Mutex
	channels map[string]bool
}

func NewClient(conn *websocket.Conn, userID uuid.UUID) *Client {
	return &Client{
		ID:       uuid.NewString(),
		UserID:   userID,
		conn:     conn,
		send:     make(chan []byte, 256),
		channels: make(map[string]bool),
	}
}

// Enqueue queues a payload for delivery, dropping it if the client is slow.
func (c *Client) Enqueue(payload []byte) {
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) subscribed(channel string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.channels[channel]
}

func (c *Client) track(channel string, on bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if on {
		c.channels[channel] = true
	} else {
		delete(c.channels, channel)
	}
}

func (c *Client) trackedChannels() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.channels))
	for ch := range c.channels {
		out = append(out, ch)
	}
	return out
}

// WriteLoop drains the send queue onto the connection and keeps the
// connection alive with pings.
func (c *Client) WriteLoop(ctx context.Context) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()
	defer c.conn.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-c.send:
			if !ok {
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
