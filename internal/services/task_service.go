package services

import (
	"context"
	"strings"
	"time"

	"teamdesk/internal/domain/notification"
	"teamdesk/internal/domain/task"
	"teamdesk/internal/domain/user"
	"teamdesk/internal/repository"
	deskerrors "teamdesk/pkg/errors"
	"teamdesk/pkg/logger"

	"github.com/google/uuid"
)

type CreateTaskInput struct {
	Title       string
	Description string
	AssignedTo  uuid.UUID
	Priority    string
	DueDate     time.Time
	Tags        []string
}

type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	Tags        []string
}

type TaskService struct {
	store         *repository.Store
	notifications *NotificationService
	log           *logger.Logger
}

func NewTaskService(store *repository.Store, notifications *NotificationService, log *logger.Logger) *TaskService {
	return &TaskService{store: store, notifications: notifications, log: log}
}

// Create assigns a new task and notifies the assignee. Clients cannot
// create tasks.
func (s *TaskService) Create(ctx context.Context, actorID uuid.UUID, input CreateTaskInput) (task.Task, error) {
	actor, err := s.store.Users.GetProfileByUserID(ctx, actorID)
	if err != nil {
		return task.Task{}, err
	}
	if actor.Role == user.RoleClient {
		return task.Task{}, deskerrors.ErrForbidden
	}
	if strings.TrimSpace(input.Title) == "" {
		return task.Task{}, deskerrors.ErrInvalidInput
	}
	if !task.ValidPriority(input.Priority) {
		return task.Task{}, deskerrors.ErrInvalidInput
	}
	if _, err := s.store.Users.GetUserByID(ctx, input.AssignedTo); err != nil {
		return task.Task{}, err
	}

	t := task.Task{
		ID:          uuid.New(),
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		AssignedTo:  input.AssignedTo,
		AssignedBy:  actorID,
		Status:      task.StatusPending,
		Priority:    input.Priority,
		DueDate:     input.DueDate,
		Tags:        input.Tags,
		CreatedAt:   time.Now(),
	}
	if err := s.store.Tasks.Create(ctx, &t); err != nil {
		return task.Task{}, err
	}

	s.notifyTask(ctx, input.AssignedTo, "New task assigned",
		"You have been assigned: "+t.Title, t.ID)
	return t, nil
}

func (s *TaskService) Get(ctx context.Context, actorID, taskID uuid.UUID) (task.Task, error) {
	t, err := s.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}
	if err := s.canView(ctx, actorID, t); err != nil {
		return task.Task{}, err
	}
	return t, nil
}

// Update patches the given fields. Assignees may change status; everything
// else requires the creator or an admin.
func (s *TaskService) Update(ctx context.Context, actorID, taskID uuid.UUID, input UpdateTaskInput) (task.Task, error) {
	t, err := s.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return task.Task{}, err
	}

	statusOnly := input.Title == nil && input.Description == nil &&
		input.Priority == nil && input.DueDate == nil && input.Tags == nil
	if statusOnly && t.AssignedTo == actorID {
		// assignee moving their own task
	} else if err := s.canManage(ctx, actorID, t); err != nil {
		return task.Task{}, err
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return task.Task{}, deskerrors.ErrInvalidInput
		}
		t.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		t.Description = *input.Description
	}
	if input.Priority != nil {
		if !task.ValidPriority(*input.Priority) {
			return task.Task{}, deskerrors.ErrInvalidInput
		}
		t.Priority = *input.Priority
	}
	if input.DueDate != nil {
		t.DueDate = *input.DueDate
	}
	if input.Tags != nil {
		t.Tags = input.Tags
	}

	statusChanged := false
	if input.Status != nil && *input.Status != t.Status {
		if !task.ValidStatus(*input.Status) {
			return task.Task{}, deskerrors.ErrInvalidInput
		}
		t.Status = *input.Status
		statusChanged = true
		if t.Status == task.StatusCompleted {
			t.CompletedAt = deskerrors.NowPtr()
		} else {
			t.CompletedAt = nil
		}
	}

	if err := s.store.Tasks.Update(ctx, t); err != nil {
		return task.Task{}, err
	}

	if statusChanged && t.Status == task.StatusCompleted && t.AssignedBy != actorID {
		s.notifyTask(ctx, t.AssignedBy, "Task completed",
			t.Title+" was marked completed", t.ID)
	}
	return t, nil
}

// Delete removes a task. Creator or admin only.
func (s *TaskService) Delete(ctx context.Context, actorID, taskID uuid.UUID) error {
	t, err := s.store.Tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}
	if err := s.canManage(ctx, actorID, t); err != nil {
		return err
	}
	return s.store.Tasks.Delete(ctx, taskID)
}

// List returns tasks visible to the actor. Admins see everything and may
// filter by assignee; everyone else sees their own assignments.
func (s *TaskService) List(ctx context.Context, actorID uuid.UUID, assignee *uuid.UUID, status string) ([]task.Task, error) {
	if status != "" && !task.ValidStatus(status) {
		return nil, deskerrors.ErrInvalidInput
	}
	actor, err := s.store.Users.GetProfileByUserID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if actor.Role == user.RoleAdmin {
		return s.store.Tasks.ListAll(ctx, assignee, status)
	}
	return s.store.Tasks.ListByAssignee(ctx, actorID, status)
}

// Stats aggregates task counts. Admins get platform-wide numbers; everyone
// else gets their own.
func (s *TaskService) Stats(ctx context.Context, actorID uuid.UUID) (task.Stats, error) {
	actor, err := s.store.Users.GetProfileByUserID(ctx, actorID)
	if err != nil {
		return task.Stats{}, err
	}
	if actor.Role == user.RoleAdmin {
		return s.store.Tasks.Stats(ctx, nil)
	}
	return s.store.Tasks.Stats(ctx, &actorID)
}

// SweepOverdue flips past-due open tasks to overdue and reminds their
// assignees. Intended to be called periodically.
func (s *TaskService) SweepOverdue(ctx context.Context) (int, error) {
	overdue, err := s.store.Tasks.ListOverdue(ctx, time.Now())
	if err != nil {
		return 0, err
	}
	flipped := 0
	for _, t := range overdue {
		t.Status = task.StatusOverdue
		if err := s.store.Tasks.Update(ctx, t); err != nil {
			s.log.ErrorCtx(ctx, "overdue sweep update failed: "+err.Error())
			continue
		}
		flipped++
		s.notifyReminder(ctx, t.AssignedTo, "Task overdue",
			t.Title+" is past its due date", t.ID)
	}
	return flipped, nil
}

func (s *TaskService) canView(ctx context.Context, actorID uuid.UUID, t task.Task) error {
	if t.AssignedTo == actorID || t.AssignedBy == actorID {
		return nil
	}
	actor, err := s.store.Users.GetProfileByUserID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != user.RoleAdmin {
		return deskerrors.ErrForbidden
	}
	return nil
}

func (s *TaskService) canManage(ctx context.Context, actorID uuid.UUID, t task.Task) error {
	if t.AssignedBy == actorID {
		return nil
	}
	actor, err := s.store.Users.GetProfileByUserID(ctx, actorID)
	if err != nil {
		return err
	}
	if actor.Role != user.RoleAdmin {
		return deskerrors.ErrForbidden
	}
	return nil
}

func (s *TaskService) notifyTask(ctx context.Context, userID uuid.UUID, title, body string, taskID uuid.UUID) {
	s.notify(ctx, userID, title, body, notification.CategoryTask, taskID)
}

func (s *TaskService) notifyReminder(ctx context.Context, userID uuid.UUID, title, body string, taskID uuid.UUID) {
	s.notify(ctx, userID, title, body, notification.CategoryReminder, taskID)
}

func (s *TaskService) notify(ctx context.Context, userID uuid.UUID, title, body, category string, taskID uuid.UUID) {
	if s.notifications == nil {
		return
	}
	relatedID := taskID.String()
	relatedEntity := "task"
	err := s.notifications.Notify(ctx, notification.Notification{
		UserID:        userID,
		Title:         title,
		Message:       body,
		Category:      category,
		RelatedID:     &relatedID,
		RelatedEntity: &relatedEntity,
		CreatedAt:     time.Now(),
	})
	if err != nil {
		s.log.ErrorCtx(ctx, "task notification failed: "+err.Error())
	}
}
