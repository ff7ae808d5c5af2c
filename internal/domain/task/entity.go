package task

import (
	"time"

	"github.com/google/uuid"
)

// Task statuses.
const (
	StatusPending    = "pending"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusOverdue    = "overdue"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Task represents the tasks table.
type Task struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"not null" json:"description"`
	AssignedTo  uuid.UUID  `gorm:"type:uuid;not null;index:idx_tasks_assigned_to" json:"assigned_to"`
	AssignedBy  uuid.UUID  `gorm:"type:uuid;not null;index:idx_tasks_assigned_by" json:"assigned_by"`
	Status      string     `gorm:"not null;default:'pending';index:idx_tasks_status" json:"status"`
	Priority    string     `gorm:"not null" json:"priority"`
	DueDate     time.Time  `gorm:"not null;index:idx_tasks_due_date" json:"due_date"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	Tags        []string   `gorm:"serializer:json" json:"tags"`
	CreatedAt   time.Time  `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Task) TableName() string {
	return "tasks"
}

// Stats aggregates task counts by status.
type Stats struct {
	Total      int64 `json:"total"`
	Pending    int64 `json:"pending"`
	InProgress int64 `json:"inProgress"`
	Completed  int64 `json:"completed"`
	Overdue    int64 `json:"overdue"`
}

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusOverdue:
		return true
	}
	return false
}

func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}
