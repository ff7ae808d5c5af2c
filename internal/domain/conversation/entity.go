package conversation

import (
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	KindDirect Kind = "direct"
	KindGroup  Kind = "group"
)

// Group-chat authorization tiers, independent of the platform-wide roles.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// PreviewLimit caps the denormalized last-message preview.
const PreviewLimit = 100

// Conversation represents the conversations table. Conversations are never
// hard-deleted; IsActive=false retires them from every query.
type Conversation struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Kind          Kind       `gorm:"type:text;not null;index:idx_conversations_kind" json:"kind"`
	Name          *string    `json:"name,omitempty"`
	Description   *string    `json:"description,omitempty"`
	AvatarKey     *string    `json:"avatar_key,omitempty"`
	CreatedBy     uuid.UUID  `gorm:"type:uuid;not null;index:idx_conversations_creator" json:"created_by"`
	IsActive      bool       `gorm:"default:true;not null" json:"is_active"`
	LastMessageAt *time.Time `gorm:"index:idx_conversations_last_message,sort:desc" json:"last_message_at,omitempty"`
	LastMessage   *string    `json:"last_message,omitempty"`
	CreatedAt     time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

// Participant represents the conversation_participants table. Leaving is
// recorded with LeftAt + IsActive=false; rows are never removed.
type Participant struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_participants_conversation_user;index:idx_participants_conversation" json:"conversation_id"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_participants_conversation_user;index:idx_participants_user" json:"user_id"`
	Role           string     `gorm:"not null;default:'member'" json:"role"`
	JoinedAt       time.Time  `gorm:"not null" json:"joined_at"`
	LeftAt         *time.Time `json:"left_at,omitempty"`
	IsActive       bool       `gorm:"default:true;not null" json:"is_active"`
	LastReadAt     *time.Time `json:"last_read_at,omitempty"`
}

func (Conversation) TableName() string {
	return "conversations"
}

func (Participant) TableName() string {
	return "conversation_participants"
}
