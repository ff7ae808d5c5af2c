package repository

import (
	"context"

	"gorm.io/gorm"
)

// Store bundles all repositories so services can take a single dependency
// and run multi-write operations inside one database transaction.
type Store struct {
	db *gorm.DB

	Conversations ConversationRepository
	Messages      MessageRepository
	Users         UserRepository
	Tasks         TaskRepository
	Notifications NotificationRepository
	Onboardings   OnboardingRepository
	Activations   ActivationRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:            db,
		Conversations: NewConversationRepository(db),
		Messages:      NewMessageRepository(db),
		Users:         NewUserRepository(db),
		Tasks:         NewTaskRepository(db),
		Notifications: NewNotificationRepository(db),
		Onboardings:   NewOnboardingRepository(db),
		Activations:   NewActivationRepository(db),
	}
}

// WithTx runs fn against a transaction-scoped Store. Any error returned by fn
// rolls the transaction back. A Store without a database (as used in tests)
// runs fn against itself.
func (s *Store) WithTx(ctx context.Context, fn func(*Store) error) error {
	if s.db == nil {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
