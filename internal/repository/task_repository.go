package repository

import (
	"context"
	"errors"
	"time"

	"teamdesk/internal/domain/task"
	deskerrors "teamdesk/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PostgresTaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, t *task.Task) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *PostgresTaskRepository) GetByID(ctx context.Context, id uuid.UUID) (task.Task, error) {
	var t task.Task
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return task.Task{}, deskerrors.ErrNotFound
		}
		return task.Task{}, err
	}
	return t, nil
}

func (r *PostgresTaskRepository) Update(ctx context.Context, t task.Task) error {
	res := r.db.WithContext(ctx).Save(&t)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return deskerrors.ErrNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Delete(&task.Task{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return deskerrors.ErrNotFound
	}
	return nil
}

func (r *PostgresTaskRepository) ListByAssignee(ctx context.Context, userID uuid.UUID, status string) ([]task.Task, error) {
	q := r.db.WithContext(ctx).Where("assigned_to = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tasks []task.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) ListAll(ctx context.Context, assignee *uuid.UUID, status string) ([]task.Task, error) {
	q := r.db.WithContext(ctx).Model(&task.Task{})
	if assignee != nil {
		q = q.Where("assigned_to = ?", *assignee)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var tasks []task.Task
	if err := q.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) ListOverdue(ctx context.Context, now time.Time) ([]task.Task, error) {
	var tasks []task.Task
	err := r.db.WithContext(ctx).
		Where("due_date < ? AND status NOT IN ?", now, []string{task.StatusCompleted, task.StatusOverdue}).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *PostgresTaskRepository) Stats(ctx context.Context, assignee *uuid.UUID) (task.Stats, error) {
	type row struct {
		Status string
		Count  int64
	}

	q := r.db.WithContext(ctx).Model(&task.Task{})
	if assignee != nil {
		q = q.Where("assigned_to = ?", *assignee)
	}

	var rows []row
	if err := q.Select("status, COUNT(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return task.Stats{}, err
	}

	var stats task.Stats
	for _, r := range rows {
		stats.Total += r.Count
		switch r.Status {
		case task.StatusPending:
			stats.Pending = r.Count
		case task.StatusInProgress:
			stats.InProgress = r.Count
		case task.StatusCompleted:
			stats.Completed = r.Count
		case task.StatusOverdue:
			stats.Overdue = r.Count
		}
	}
	return stats, nil
}
