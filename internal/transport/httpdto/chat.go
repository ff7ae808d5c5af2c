package httpdto

type CreateDirectConversationRequest struct {
	OtherUserID string `json:"other_user_id" binding:"required"`
}

type CreateGroupConversationRequest struct {
	Name           string   `json:"name" binding:"required"`
	Description    *string  `json:"description,omitempty"`
	ParticipantIDs []string `json:"participant_ids"`
}

type ConversationCreatedResponse struct {
	ConversationID string `json:"conversation_id"`
}

type SendMessageRequest struct {
	ConversationID string  `json:"conversation_id" binding:"required"`
	Content        string  `json:"content" binding:"required"`
	ReplyToID      *string `json:"reply_to_id,omitempty"`
}

type SendFileMessageRequest struct {
	ConversationID string  `json:"conversation_id" binding:"required"`
	Type           string  `json:"type" binding:"required"`
	FileKey        string  `json:"file_key" binding:"required"`
	FileName       *string `json:"file_name,omitempty"`
	FileSize       *int64  `json:"file_size,omitempty"`
	Duration       *int    `json:"duration,omitempty"`
	ReplyToID      *string `json:"reply_to_id,omitempty"`
}

type MessageCreatedResponse struct {
	MessageID string `json:"message_id"`
}

type EditMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

type MarkReadResponse struct {
	MarkedCount int `json:"marked_count"`
}

type SuccessResponse struct {
	Success bool `json:"success"`
}
