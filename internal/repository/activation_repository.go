package repository

import (
	"context"
	"errors"

	"teamdesk/internal/domain/activation"
	deskerrors "teamdesk/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresActivationRepository struct {
	db *gorm.DB
}

func NewActivationRepository(db *gorm.DB) ActivationRepository {
	return &PostgresActivationRepository{db: db}
}

func (r *PostgresActivationRepository) Create(ctx context.Context, t *activation.Token) error {
	res := r.db.WithContext(ctx).Create(t)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return deskerrors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresActivationRepository) GetByToken(ctx context.Context, token string) (activation.Token, error) {
	var t activation.Token
	err := r.db.WithContext(ctx).Where("token = ?", token).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return activation.Token{}, deskerrors.ErrNotFound
		}
		return activation.Token{}, err
	}
	return t, nil
}

func (r *PostgresActivationRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&activation.Token{}).
		Where("id = ?", id).
		Update("used", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return deskerrors.ErrNotFound
	}
	return nil
}

func (r *PostgresActivationRepository) InvalidateForEmail(ctx context.Context, email string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&activation.Token{}).
		Where("email = ? AND used = ?", email, false).
		Update("used", true)
	if res.Error != nil {
		return 0, res.Error
	}
	return res.RowsAffected, nil
}
