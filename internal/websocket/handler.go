package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"teamdesk/internal/proxy"
	"teamdesk/internal/services"
	"teamdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Handler struct {
	auth   *services.AuthService
	access *proxy.AccessControl
	hub    *Hub
}

func NewHandler(auth *services.AuthService, access *proxy.AccessControl, hub *Hub) *Handler {
	return &Handler{auth: auth, access: access, hub: hub}
}

// clientCommand is the only inbound message shape: subscribe/unsubscribe to a
// conversation's event channel.
type clientCommand struct {
	Action         string `json:"action"`
	ConversationID string `json:"conversation_id"`
}

func (h *Handler) Connect(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	claims, err := h.auth.ParseAccessToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}
	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, httpdto.NewErrorResponse("unauthorized", "UNAUTHORIZED"))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}

	client := NewClient(conn, userID)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h.hub.Register(client)
	// Everyone listens on their own notification channel.
	h.hub.Subscribe(client, "notify:"+userID.String())
	go client.WriteLoop(ctx)

	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	})

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			break
		}
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		h.handleCommand(ctx, client, raw)
	}

	h.hub.Unregister(client)
}

func (h *Handler) handleCommand(ctx context.Context, client *Client, raw []byte) {
	var cmd clientCommand
	if err := json.Unmarshal(raw, &cmd); err != nil {
		return
	}
	conversationID, err := uuid.Parse(cmd.ConversationID)
	if err != nil {
		return
	}
	channel := "chat:" + conversationID.String()

	switch cmd.Action {
	case "subscribe":
		if err := h.access.CanViewConversation(ctx, client.UserID, conversationID); err != nil {
			return
		}
		h.hub.Subscribe(client, channel)
	case "unsubscribe":
		h.hub.Unsubscribe(client, channel)
	}
}
