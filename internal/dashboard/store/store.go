package store

import (
	"context"
	"errors"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// ConflictError reports a unique index violation. Field names the client
// field whose index was hit ("email" or "phone"), or is empty when the
// driver could not tell.
type ConflictError struct {
	Field string
}

func (e *ConflictError) Error() string {
	if e.Field == "" {
		return ErrAlreadyExists.Error()
	}
	return ErrAlreadyExists.Error() + ": " + e.Field
}

func (e *ConflictError) Is(target error) bool { return target == ErrAlreadyExists }

// Store is the document store the dashboard reads and writes. Concrete
// drivers (sqlite, postgres) implement it. Every repository method takes the
// owner identifier explicitly; nothing in here reads identity from context.
type Store interface {
	Clients() Clients
	Tasks() Tasks

	ApplyMigrations() error

	// WithTx runs fn inside a transaction, committing when fn returns nil.
	// The Store handed to fn must not be used after fn returns.
	WithTx(ctx context.Context, fn func(tx Store) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

type Clients interface {
	// ListClientsByOwner returns every client of owner in creation order.
	ListClientsByOwner(ctx context.Context, ownerID string) ([]domain.Client, error)

	// GetClient returns ErrNotFound for ids that belong to another owner.
	GetClient(ctx context.Context, ownerID, id string) (domain.Client, error)

	// FindClientsByEmail is an exact match; callers normalise first.
	FindClientsByEmail(ctx context.Context, ownerID, email string) ([]domain.Client, error)

	// FindClientsByPhone is an exact match.
	FindClientsByPhone(ctx context.Context, ownerID, phone string) ([]domain.Client, error)

	// CreateClient inserts c (id is assigned by the caller via idx).
	CreateClient(ctx context.Context, c domain.Client) error

	// ReplaceClient overwrites every mutable field of the stored document.
	ReplaceClient(ctx context.Context, c domain.Client) error

	// UpdateClientApproval sets only the approval status.
	UpdateClientApproval(ctx context.Context, ownerID, id string, status domain.ApprovalStatus) error

	DeleteClient(ctx context.Context, ownerID, id string) error
}

type Tasks interface {
	// ListTasksByOwner returns every task of owner in creation order.
	ListTasksByOwner(ctx context.Context, ownerID string) ([]domain.Task, error)

	GetTask(ctx context.Context, ownerID, id string) (domain.Task, error)

	CreateTask(ctx context.Context, t domain.Task) error

	// ReplaceTask overwrites title, description, status, priority, due date
	// and update time. Owner and creation time are never touched.
	ReplaceTask(ctx context.Context, t domain.Task) error

	// UpdateTaskStatus sets only the status column.
	UpdateTaskStatus(ctx context.Context, ownerID, id string, status domain.TaskStatus) error

	DeleteTask(ctx context.Context, ownerID, id string) error
}
