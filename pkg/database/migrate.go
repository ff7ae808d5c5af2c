package database

import (
	"teamdesk/internal/domain/activation"
	"teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/message"
	"teamdesk/internal/domain/notification"
	"teamdesk/internal/domain/onboarding"
	"teamdesk/internal/domain/task"
	"teamdesk/internal/domain/user"

	"gorm.io/gorm"
)

// Migrate applies the schema for every table the application owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&user.Profile{},
		&conversation.Conversation{},
		&conversation.Participant{},
		&message.Message{},
		&message.ReadReceipt{},
		&task.Task{},
		&notification.Notification{},
		&onboarding.Onboarding{},
		&onboarding.Recommendation{},
		&activation.Token{},
	)
}
