package websocket

import (
	"context"

	"teamdesk/internal/redis"
)

// Bridge relays redis pub/sub traffic into the hub so events published by any
// API instance reach the clients connected to this one.
type Bridge struct {
	subscriber *redis.Subscriber
	hub        *Hub
}

func NewBridge(subscriber *redis.Subscriber, hub *Hub) *Bridge {
	return &Bridge{subscriber: subscriber, hub: hub}
}

func (b *Bridge) Run(ctx context.Context) error {
	return b.subscriber.PSubscribe(ctx, []string{"chat:*", "notify:*"}, func(channel string, payload []byte) {
		b.hub.Broadcast(channel, payload)
	})
}
