package message

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeText   Type = "text"
	TypeImage  Type = "image"
	TypeVoice  Type = "voice"
	TypeFile   Type = "file"
	TypeSystem Type = "system"
)

// Message represents the messages table. Rows are never physically removed;
// deletion is a tombstone (IsDeleted) that excludes the row from listings
// while content and metadata are retained.
type Message struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ConversationID uuid.UUID  `gorm:"type:uuid;not null;index:idx_messages_conversation" json:"conversation_id"`
	SenderID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_messages_sender" json:"sender_id"`
	Type           Type       `gorm:"type:text;not null" json:"type"`
	Content        *string    `json:"content,omitempty"`
	FileKey        *string    `json:"file_key,omitempty"`
	FileName       *string    `json:"file_name,omitempty"`
	FileSize       *int64     `json:"file_size,omitempty"`
	Duration       *int       `json:"duration,omitempty"`
	ReplyToID      *uuid.UUID `gorm:"type:uuid" json:"reply_to_id,omitempty"`
	IsEdited       bool       `gorm:"default:false;not null" json:"is_edited"`
	EditedAt       *time.Time `json:"edited_at,omitempty"`
	IsDeleted      bool       `gorm:"default:false;not null" json:"is_deleted"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty"`
	CreatedAt      time.Time  `gorm:"default:CURRENT_TIMESTAMP;index:idx_messages_created" json:"created_at"`
}

// ReadReceipt represents the message_read_receipts table. Exactly one row per
// (message, user) pair; created once and never mutated.
type ReadReceipt struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	MessageID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_receipts_message_user;index:idx_receipts_message" json:"message_id"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_receipts_message_user" json:"user_id"`
	ReadAt    time.Time `gorm:"not null" json:"read_at"`
}

func (Message) TableName() string {
	return "messages"
}

func (ReadReceipt) TableName() string {
	return "message_read_receipts"
}

// Editable reports whether a sender-initiated edit is legal for this type.
func (m Message) Editable() bool {
	return m.Type == TypeText
}
