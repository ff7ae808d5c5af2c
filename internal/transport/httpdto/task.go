package httpdto

import "time"

type CreateTaskRequest struct {
	Title       string    `json:"title" binding:"required"`
	Description string    `json:"description"`
	AssignedTo  string    `json:"assigned_to" binding:"required"`
	Priority    string    `json:"priority" binding:"required"`
	DueDate     time.Time `json:"due_date" binding:"required"`
	Tags        []string  `json:"tags,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}
