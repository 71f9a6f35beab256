package domain

import (
	"errors"
	"strings"
	"time"
)

type TaskStatus string

const (
	TaskTodo       TaskStatus = "todo"
	TaskInProgress TaskStatus = "in-progress"
	TaskCompleted  TaskStatus = "completed"
)

// TaskStatuses is the fixed column order of the board.
var TaskStatuses = []TaskStatus{TaskTodo, TaskInProgress, TaskCompleted}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

var (
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("invalid priority")
)

func ParseTaskStatus(s string) (TaskStatus, error) {
	switch st := TaskStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case TaskTodo, TaskInProgress, TaskCompleted:
		return st, nil
	default:
		return "", ErrInvalidTaskStatus
	}
}

func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", ErrInvalidPriority
	}
}

type Task struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	Status      TaskStatus
	Priority    Priority
	DueAt       *time.Time
	CreatedAt   time.Time
	UpdatedAt   *time.Time // nil until the task is first edited
}

// TaskDraft is the shared add/edit form buffer. Status is ignored on add.
type TaskDraft struct {
	Title       string
	Description string
	Status      TaskStatus
	Priority    Priority
	DueAt       *time.Time
}

// Draft returns the editable fields of t, used to seed the edit form.
func (t Task) Draft() TaskDraft {
	return TaskDraft{
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		DueAt:       t.DueAt,
	}
}

// Board is the three-column view over one task list.
type Board struct {
	Todo       []Task
	InProgress []Task
	Completed  []Task
}

// Partition splits tasks by status, keeping the input order inside each
// column. Tasks with an unknown status are dropped from the board.
func Partition(tasks []Task) Board {
	var b Board
	for _, t := range tasks {
		switch t.Status {
		case TaskTodo:
			b.Todo = append(b.Todo, t)
		case TaskInProgress:
			b.InProgress = append(b.InProgress, t)
		case TaskCompleted:
			b.Completed = append(b.Completed, t)
		}
	}
	return b
}

// Column returns the tasks in the column for status.
func (b Board) Column(status TaskStatus) []Task {
	switch status {
	case TaskTodo:
		return b.Todo
	case TaskInProgress:
		return b.InProgress
	case TaskCompleted:
		return b.Completed
	default:
		return nil
	}
}
