package websocket

import (
	"testing"

	"github.com/google/uuid"
)

func newTestClient() *Client {
	return NewClient(nil, uuid.New())
}

func drain(c *Client) [][]byte {
	var out [][]byte
	for {
		select {
		case p := <-c.send:
			out = append(out, p)
		default:
			return out
		}
	}
}

func TestBroadcast_OnlySubscribers(t *testing.T) {
	hub := NewHub()
	a := newTestClient()
	b := newTestClient()
	hub.Register(a)
	hub.Register(b)
	hub.Subscribe(a, "chat:1")

	hub.Broadcast("chat:1", []byte("hello"))

	if got := drain(a); len(got) != 1 || string(got[0]) != "hello" {
		t.Errorf("Expected subscriber to receive payload, got %v", got)
	}
	if got := drain(b); len(got) != 0 {
		t.Errorf("Expected non-subscriber to receive nothing, got %v", got)
	}
}

func TestUnsubscribe_StopsDelivery(t *testing.T) {
	hub := NewHub()
	a := newTestClient()
	hub.Register(a)
	hub.Subscribe(a, "chat:1")
	hub.Unsubscribe(a, "chat:1")

	hub.Broadcast("chat:1", []byte("hello"))

	if got := drain(a); len(got) != 0 {
		t.Errorf("Expected nothing after unsubscribe, got %v", got)
	}
	if a.subscribed("chat:1") {
		t.Error("Expected client tracking cleared")
	}
}

func TestUnregister_CleansChannelsAndClosesSend(t *testing.T) {
	hub := NewHub()
	a := newTestClient()
	hub.Register(a)
	hub.Subscribe(a, "chat:1")
	hub.Subscribe(a, "notify:x")

	hub.Unregister(a)

	// A closed send channel reads zero values without blocking.
	if _, ok := <-a.send; ok {
		t.Error("Expected send channel closed")
	}

	hub.mu.RLock()
	defer hub.mu.RUnlock()
	if len(hub.channels) != 0 {
		t.Errorf("Expected channel map cleaned, got %v", hub.channels)
	}
	if len(hub.clients) != 0 {
		t.Errorf("Expected client map cleaned, got %v", hub.clients)
	}
}

func TestEnqueue_DropsWhenFull(t *testing.T) {
	a := newTestClient()
	for i := 0; i < cap(a.send)+10; i++ {
		a.Enqueue([]byte("x"))
	}
	if len(a.send) != cap(a.send) {
		t.Errorf("Expected queue capped at %d, got %d", cap(a.send), len(a.send))
	}
}
