package handler

import (
	"net/http"
	"strconv"

	"teamdesk/internal/domain/message"
	"teamdesk/internal/services"
	"teamdesk/internal/transport/httpdto"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ChatHandler struct {
	service *services.ChatService
}

func NewChatHandler(service *services.ChatService) *ChatHandler {
	return &ChatHandler{service: service}
}

func (h *ChatHandler) CreateDirect(c *gin.Context) {
	var req httpdto.CreateDirectConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	otherID, err := parseUUID(req.OtherUserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid other_user_id", "INVALID_REQUEST"))
		return
	}

	conversationID, err := h.service.CreateDirectConversation(c.Request.Context(), userID, otherID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ConversationCreatedResponse{
		ConversationID: conversationID.String(),
	}))
}

func (h *ChatHandler) CreateGroup(c *gin.Context) {
	var req httpdto.CreateGroupConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	memberIDs := make([]uuid.UUID, 0, len(req.ParticipantIDs))
	for _, raw := range req.ParticipantIDs {
		id, err := parseUUID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid participant id", "INVALID_REQUEST"))
			return
		}
		memberIDs = append(memberIDs, id)
	}

	conversationID, err := h.service.CreateGroupConversation(c.Request.Context(), userID, req.Name, req.Description, memberIDs)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.ConversationCreatedResponse{
		ConversationID: conversationID.String(),
	}))
}

func (h *ChatHandler) ListConversations(c *gin.Context) {
	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := h.service.ListConversations(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"conversations": views}))
}

func (h *ChatHandler) ListMessages(c *gin.Context) {
	conversationID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid conversation id", "INVALID_REQUEST"))
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid limit", "INVALID_REQUEST"))
			return
		}
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := h.service.ListMessages(c.Request.Context(), userID, conversationID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"messages": views}))
}

func (h *ChatHandler) SendMessage(c *gin.Context) {
	var req httpdto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	conversationID, err := parseUUID(req.ConversationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid conversation_id", "INVALID_REQUEST"))
		return
	}
	replyToID, err := parseOptionalUUID(req.ReplyToID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid reply_to_id", "INVALID_REQUEST"))
		return
	}

	messageID, err := h.service.SendMessage(c.Request.Context(), userID, conversationID, req.Content, replyToID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MessageCreatedResponse{MessageID: messageID.String()}))
}

func (h *ChatHandler) SendFileMessage(c *gin.Context) {
	var req httpdto.SendFileMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	conversationID, err := parseUUID(req.ConversationID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid conversation_id", "INVALID_REQUEST"))
		return
	}
	replyToID, err := parseOptionalUUID(req.ReplyToID)
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid reply_to_id", "INVALID_REQUEST"))
		return
	}

	messageID, err := h.service.SendFileMessage(c.Request.Context(), userID, services.SendFileInput{
		ConversationID: conversationID,
		Type:           message.Type(req.Type),
		FileKey:        req.FileKey,
		FileName:       req.FileName,
		FileSize:       req.FileSize,
		Duration:       req.Duration,
		ReplyToID:      replyToID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MessageCreatedResponse{MessageID: messageID.String()}))
}

func (h *ChatHandler) EditMessage(c *gin.Context) {
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return
	}

	var req httpdto.EditMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid request", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.EditMessage(c.Request.Context(), userID, messageID, req.Content); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SuccessResponse{Success: true}))
}

func (h *ChatHandler) DeleteMessage(c *gin.Context) {
	messageID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid message id", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.DeleteMessage(c.Request.Context(), userID, messageID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.SuccessResponse{Success: true}))
}

func (h *ChatHandler) MarkRead(c *gin.Context) {
	conversationID, err := parseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, httpdto.NewErrorResponse("invalid conversation id", "INVALID_REQUEST"))
		return
	}

	userID, err := services.UserIDFromContext(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	count, err := h.service.MarkConversationRead(c.Request.Context(), userID, conversationID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, httpdto.NewSuccessResponse(httpdto.MarkReadResponse{MarkedCount: count}))
}
