package repository

import (
	"context"
	"errors"

	"teamdesk/internal/domain/onboarding"
	deskerrors "teamdesk/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresOnboardingRepository struct {
	db *gorm.DB
}

func NewOnboardingRepository(db *gorm.DB) OnboardingRepository {
	return &PostgresOnboardingRepository{db: db}
}

func (r *PostgresOnboardingRepository) Create(ctx context.Context, o *onboarding.Onboarding) error {
	res := r.db.WithContext(ctx).Create(o)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return deskerrors.ErrAlreadyExists
		}
		return res.Error
	}
	return nil
}

func (r *PostgresOnboardingRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (onboarding.Onboarding, error) {
	var o onboarding.Onboarding
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&o).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return onboarding.Onboarding{}, deskerrors.ErrNotFound
		}
		return onboarding.Onboarding{}, err
	}
	return o, nil
}

func (r *PostgresOnboardingRepository) Update(ctx context.Context, o onboarding.Onboarding) error {
	res := r.db.WithContext(ctx).Save(&o)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return deskerrors.ErrNotFound
	}
	return nil
}

func (r *PostgresOnboardingRepository) CreateRecommendation(ctx context.Context, rec *onboarding.Recommendation) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

func (r *PostgresOnboardingRepository) GetRecommendationByUserID(ctx context.Context, userID uuid.UUID) (onboarding.Recommendation, error) {
	var rec onboarding.Recommendation
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("generated_at DESC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return onboarding.Recommendation{}, deskerrors.ErrNotFound
		}
		return onboarding.Recommendation{}, err
	}
	return rec, nil
}
