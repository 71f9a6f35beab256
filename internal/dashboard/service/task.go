package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

var ErrTaskNotFound = errors.New("task not found")

type TaskService struct {
	Store store.Store

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *TaskService) now() time.Time { return clock(s.Now).now() }

func (s *TaskService) List(ctx context.Context, ownerID string) ([]domain.Task, error) {
	tasks, err := s.Store.Tasks().ListTasksByOwner(ctx, ownerID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list tasks", "error", err)
		return nil, err
	}
	return tasks, nil
}

// Board lists the owner's tasks once and splits them into columns.
func (s *TaskService) Board(ctx context.Context, ownerID string) (domain.Board, error) {
	tasks, err := s.List(ctx, ownerID)
	if err != nil {
		return domain.Board{}, err
	}
	return domain.Partition(tasks), nil
}

func (s *TaskService) Get(ctx context.Context, ownerID, id string) (domain.Task, error) {
	t, err := s.Store.Tasks().GetTask(ctx, ownerID, id)
	if err != nil {
		return domain.Task{}, mapTaskErr(err)
	}
	return t, nil
}

// Add creates a task in the todo column. Any status on the draft is ignored.
func (s *TaskService) Add(ctx context.Context, ownerID string, draft domain.TaskDraft) (domain.Task, error) {
	l := slogx.FromContext(ctx)

	if ownerID == "" {
		return domain.Task{}, ErrMissingOwner
	}

	title, priority, err := validateTaskDraft(draft)
	if err != nil {
		return domain.Task{}, err
	}

	t := domain.Task{
		ID:          idx.New().String(),
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(draft.Description),
		Status:      domain.TaskTodo,
		Priority:    priority,
		DueAt:       utc(draft.DueAt),
		CreatedAt:   s.now(),
	}
	if err := s.Store.Tasks().CreateTask(ctx, t); err != nil {
		l.Error("failed to create task", "error", err)
		return domain.Task{}, err
	}

	l.Info("task created", "task_id", t.ID, "priority", t.Priority)
	return t, nil
}

// Edit overwrites every editable field of the task with draft and stamps a
// new update time. An empty status keeps the current one.
func (s *TaskService) Edit(ctx context.Context, ownerID, id string, draft domain.TaskDraft) (domain.Task, error) {
	l := slogx.FromContext(ctx)

	title, priority, err := validateTaskDraft(draft)
	if err != nil {
		return domain.Task{}, err
	}

	existing, err := s.Store.Tasks().GetTask(ctx, ownerID, id)
	if err != nil {
		return domain.Task{}, mapTaskErr(err)
	}

	status := existing.Status
	if draft.Status != "" {
		if status, err = domain.ParseTaskStatus(string(draft.Status)); err != nil {
			return domain.Task{}, err
		}
	}

	now := s.now()
	existing.Title = title
	existing.Description = strings.TrimSpace(draft.Description)
	existing.Status = status
	existing.Priority = priority
	existing.DueAt = utc(draft.DueAt)
	existing.UpdatedAt = &now

	if err := s.Store.Tasks().ReplaceTask(ctx, existing); err != nil {
		err = mapTaskErr(err)
		l.Error("failed to replace task", "error", err, "task_id", id)
		return domain.Task{}, err
	}

	l.Info("task updated", "task_id", id)
	return existing, nil
}

// SetStatus moves a task to another column without touching any other field.
func (s *TaskService) SetStatus(ctx context.Context, ownerID, id string, status domain.TaskStatus) error {
	status, err := domain.ParseTaskStatus(string(status))
	if err != nil {
		return err
	}
	if err := s.Store.Tasks().UpdateTaskStatus(ctx, ownerID, id, status); err != nil {
		err = mapTaskErr(err)
		if !errors.Is(err, ErrTaskNotFound) {
			slogx.FromContext(ctx).Error("failed to update task status", "error", err, "task_id", id)
		}
		return err
	}
	slogx.FromContext(ctx).Info("task status updated", "task_id", id, "status", status)
	return nil
}

func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.Store.Tasks().DeleteTask(ctx, ownerID, id); err != nil {
		err = mapTaskErr(err)
		if !errors.Is(err, ErrTaskNotFound) {
			slogx.FromContext(ctx).Error("failed to delete task", "error", err, "task_id", id)
		}
		return err
	}
	slogx.FromContext(ctx).Info("task deleted", "task_id", id)
	return nil
}

func validateTaskDraft(d domain.TaskDraft) (string, domain.Priority, error) {
	title := strings.TrimSpace(d.Title)
	if title == "" {
		return "", "", missingFields([]string{"title"})
	}

	priority := domain.PriorityMedium
	if d.Priority != "" {
		p, err := domain.ParsePriority(string(d.Priority))
		if err != nil {
			return "", "", err
		}
		priority = p
	}
	return title, priority, nil
}

func utc(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := t.UTC()
	return &v
}

func mapTaskErr(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return ErrTaskNotFound
	}
	return err
}
