package services

import (
	"context"
	"encoding/json"

	"teamdesk/internal/domain/notification"
	"teamdesk/internal/redis"
	"teamdesk/internal/repository"
	deskerrors "teamdesk/pkg/errors"
	"teamdesk/pkg/logger"

	"github.com/google/uuid"
)

// Notifier pushes a notification to a user's live channel. Delivery is best
// effort; the persisted row is the source of truth.
type Notifier interface {
	NotifyUser(ctx context.Context, userID uuid.UUID, n notification.Notification) error
}

// RedisNotifier publishes notifications on a per-user pub/sub channel for the
// websocket bridge to relay.
type RedisNotifier struct {
	publisher *redis.Publisher
}

func NewRedisNotifier(publisher *redis.Publisher) *RedisNotifier {
	return &RedisNotifier{publisher: publisher}
}

func (n *RedisNotifier) NotifyUser(ctx context.Context, userID uuid.UUID, notif notification.Notification) error {
	payload, err := json.Marshal(notif)
	if err != nil {
		return err
	}
	return n.publisher.Publish(ctx, "notify:"+userID.String(), payload)
}

type NotificationService struct {
	store    *repository.Store
	notifier Notifier
	log      *logger.Logger
}

func NewNotificationService(store *repository.Store, notifier Notifier, log *logger.Logger) *NotificationService {
	return &NotificationService{store: store, notifier: notifier, log: log}
}

// Notify persists a notification and pushes it to the user's live channel.
// Push failures are logged, not returned.
func (s *NotificationService) Notify(ctx context.Context, n notification.Notification) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	if err := s.store.Notifications.Create(ctx, &n); err != nil {
		return err
	}
	if s.notifier != nil {
		if err := s.notifier.NotifyUser(ctx, n.UserID, n); err != nil {
			s.log.ErrorCtx(ctx, "notification push failed: "+err.Error())
		}
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, userID uuid.UUID, limit int, unreadOnly bool) ([]notification.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.store.Notifications.ListForUser(ctx, userID, limit, unreadOnly)
}

func (s *NotificationService) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.Notifications.CountUnread(ctx, userID)
}

// MarkRead marks one notification as read. Only the owner may do so.
func (s *NotificationService) MarkRead(ctx context.Context, actorID, notificationID uuid.UUID) error {
	n, err := s.store.Notifications.GetByID(ctx, notificationID)
	if err != nil {
		return err
	}
	if n.UserID != actorID {
		return deskerrors.ErrForbidden
	}
	return s.store.Notifications.MarkRead(ctx, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	return s.store.Notifications.MarkAllRead(ctx, userID)
}
