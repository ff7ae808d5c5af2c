package notification

import (
	"time"

	"github.com/google/uuid"
)

// Notification categories.
const (
	CategoryTask     = "task"
	CategorySystem   = "system"
	CategoryReminder = "reminder"
)

// Notification represents the notifications table.
type Notification struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_user;index:idx_notifications_user_read" json:"user_id"`
	Title         string    `gorm:"not null" json:"title"`
	Message       string    `gorm:"not null" json:"message"`
	Category      string    `gorm:"not null" json:"category"`
	IsRead        bool      `gorm:"default:false;not null;index:idx_notifications_user_read" json:"is_read"`
	RelatedID     *string   `json:"related_id,omitempty"`
	RelatedEntity *string   `json:"related_entity,omitempty"`
	CreatedAt     time.Time `gorm:"default:CURRENT_TIMESTAMP;index:idx_notifications_created,sort:desc" json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}
