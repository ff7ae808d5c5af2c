package repository

import (
	"context"
	"errors"
	"time"

	"teamdesk/internal/domain/message"
	deskerrors "teamdesk/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresMessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m *message.Message) error {
	res := r.db.WithContext(ctx).Create(m)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return deskerrors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresMessageRepository) GetByID(ctx context.Context, id uuid.UUID) (message.Message, error) {
	var m message.Message
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return message.Message{}, deskerrors.ErrNotFound
		}
		return message.Message{}, err
	}
	return m, nil
}

// ListRecent returns up to limit newest non-tombstoned messages, newest first.
func (r *PostgresMessageRepository) ListRecent(ctx context.Context, conversationID uuid.UUID, limit int) ([]message.Message, error) {
	var messages []message.Message
	err := r.db.WithContext(ctx).
		Where("conversation_id = ? AND is_deleted = ?", conversationID, false).
		Order("created_at DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresMessageRepository) Edit(ctx context.Context, id uuid.UUID, content string, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"content":   content,
			"is_edited": true,
			"edited_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return deskerrors.ErrNotFound
	}
	return nil
}

func (r *PostgresMessageRepository) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"is_deleted": true,
			"deleted_at": at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return deskerrors.ErrNotFound
	}
	return nil
}

// unreadQuery selects the unread set: messages in the conversation that
// arrived after the given watermark, not sent by the user, not tombstoned,
// and not system announcements.
func (r *PostgresMessageRepository) unreadQuery(ctx context.Context, conversationID, userID uuid.UUID, after *time.Time) *gorm.DB {
	q := r.db.WithContext(ctx).
		Model(&message.Message{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_deleted = ? AND type <> ?",
			conversationID, userID, false, message.TypeSystem)
	if after != nil {
		q = q.Where("created_at > ?", *after)
	}
	return q
}

func (r *PostgresMessageRepository) CountUnread(ctx context.Context, conversationID, userID uuid.UUID, after *time.Time) (int64, error) {
	var count int64
	if err := r.unreadQuery(ctx, conversationID, userID, after).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresMessageRepository) ListUnread(ctx context.Context, conversationID, userID uuid.UUID, after *time.Time) ([]message.Message, error) {
	var messages []message.Message
	if err := r.unreadQuery(ctx, conversationID, userID, after).Find(&messages).Error; err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *PostgresMessageRepository) CreateReceipt(ctx context.Context, receipt *message.ReadReceipt) error {
	res := r.db.WithContext(ctx).Create(receipt)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return deskerrors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresMessageRepository) HasReceipt(ctx context.Context, messageID, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&message.ReadReceipt{}).
		Where("message_id = ? AND user_id = ?", messageID, userID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresMessageRepository) GetReceipts(ctx context.Context, messageID uuid.UUID) ([]message.ReadReceipt, error) {
	var receipts []message.ReadReceipt
	err := r.db.WithContext(ctx).
		Where("message_id = ?", messageID).
		Find(&receipts).Error
	if err != nil {
		return nil, err
	}
	return receipts, nil
}
