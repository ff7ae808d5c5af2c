package repository

import (
	"context"
	"time"

	"teamdesk/internal/domain/activation"
	"teamdesk/internal/domain/conversation"
	"teamdesk/internal/domain/message"
	"teamdesk/internal/domain/notification"
	"teamdesk/internal/domain/onboarding"
	"teamdesk/internal/domain/task"
	"teamdesk/internal/domain/user"

	"github.com/google/uuid"
)

type ConversationRepository interface {
	Create(ctx context.Context, c *conversation.Conversation) error
	GetByID(ctx context.Context, id uuid.UUID) (conversation.Conversation, error)
	UpdatePreview(ctx context.Context, id uuid.UUID, preview string, at time.Time) error

	AddParticipant(ctx context.Context, p *conversation.Participant) error
	GetActiveParticipant(ctx context.Context, conversationID, userID uuid.UUID) (conversation.Participant, error)
	GetActiveParticipants(ctx context.Context, conversationID uuid.UUID) ([]conversation.Participant, error)
	GetActiveParticipations(ctx context.Context, userID uuid.UUID) ([]conversation.Participant, error)
	IsActiveParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
	SetLastReadAt(ctx context.Context, participantID uuid.UUID, at time.Time) error
}

type MessageRepository interface {
	Create(ctx context.Context, m *message.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (message.Message, error)
	ListRecent(ctx context.Context, conversationID uuid.UUID, limit int) ([]message.Message, error)
	Edit(ctx context.Context, id uuid.UUID, content string, at time.Time) error
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error

	CountUnread(ctx context.Context, conversationID, userID uuid.UUID, after *time.Time) (int64, error)
	ListUnread(ctx context.Context, conversationID, userID uuid.UUID, after *time.Time) ([]message.Message, error)

	CreateReceipt(ctx context.Context, r *message.ReadReceipt) error
	HasReceipt(ctx context.Context, messageID, userID uuid.UUID) (bool, error)
	GetReceipts(ctx context.Context, messageID uuid.UUID) ([]message.ReadReceipt, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, u *user.User) error
	GetUserByID(ctx context.Context, id uuid.UUID) (user.User, error)
	GetUserByEmail(ctx context.Context, email string) (user.User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID, at time.Time) error

	CreateProfile(ctx context.Context, p *user.Profile) error
	GetProfileByUserID(ctx context.Context, userID uuid.UUID) (user.Profile, error)
	ListProfiles(ctx context.Context) ([]user.Profile, error)
	SetProfileStatus(ctx context.Context, userID uuid.UUID, status string) error
	SetOnlineStatus(ctx context.Context, userID uuid.UUID, isOnline bool, at time.Time) error
	SetLastLogin(ctx context.Context, userID uuid.UUID, at time.Time) error
}

type TaskRepository interface {
	Create(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (task.Task, error)
	Update(ctx context.Context, t task.Task) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByAssignee(ctx context.Context, userID uuid.UUID, status string) ([]task.Task, error)
	ListAll(ctx context.Context, assignee *uuid.UUID, status string) ([]task.Task, error)
	ListOverdue(ctx context.Context, now time.Time) ([]task.Task, error)
	Stats(ctx context.Context, assignee *uuid.UUID) (task.Stats, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, n *notification.Notification) error
	GetByID(ctx context.Context, id uuid.UUID) (notification.Notification, error)
	ListForUser(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]notification.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error)
}

type OnboardingRepository interface {
	Create(ctx context.Context, o *onboarding.Onboarding) error
	GetByUserID(ctx context.Context, userID uuid.UUID) (onboarding.Onboarding, error)
	Update(ctx context.Context, o onboarding.Onboarding) error
	CreateRecommendation(ctx context.Context, r *onboarding.Recommendation) error
	GetRecommendationByUserID(ctx context.Context, userID uuid.UUID) (onboarding.Recommendation, error)
}

type ActivationRepository interface {
	Create(ctx context.Context, t *activation.Token) error
	GetByToken(ctx context.Context, token string) (activation.Token, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	InvalidateForEmail(ctx context.Context, email string) (int64, error)
}
