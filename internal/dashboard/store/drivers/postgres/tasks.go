package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store"

	"github.com/jackc/pgx/v5"
)

const taskColumns = `id, owner_id, title, description, status, priority, due_at, created_at, updated_at`

type tasksRepo struct {
	db dbtx
}

var _ store.Tasks = (*tasksRepo)(nil)

func scanTask(row pgx.Row) (domain.Task, error) {
	var (
		t         domain.Task
		status    string
		priority  string
		dueAt     *time.Time
		updatedAt *time.Time
	)
	if err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description,
		&status, &priority, &dueAt, &t.CreatedAt, &updatedAt,
	); err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.Priority(priority)
	t.DueAt = utcPtr(dueAt)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = utcPtr(updatedAt)
	return t, nil
}

func (r *tasksRepo) ListTasksByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 ORDER BY id ASC`,
		ownerID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *tasksRepo) GetTask(ctx context.Context, ownerID, id string) (domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	))
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		t.ID, t.OwnerID, t.Title, t.Description,
		string(t.Status), string(t.Priority),
		utcPtr(t.DueAt), t.CreatedAt.UTC(), utcPtr(t.UpdatedAt),
	)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (r *tasksRepo) ReplaceTask(ctx context.Context, t domain.Task) error {
	return requireAffected(r.db.Exec(ctx,
		`UPDATE tasks
		 SET title = $3, description = $4, status = $5, priority = $6, due_at = $7, updated_at = $8
		 WHERE owner_id = $1 AND id = $2`,
		t.OwnerID, t.ID,
		t.Title, t.Description, string(t.Status), string(t.Priority),
		utcPtr(t.DueAt), utcPtr(t.UpdatedAt),
	))
}

func (r *tasksRepo) UpdateTaskStatus(ctx context.Context, ownerID, id string, status domain.TaskStatus) error {
	return requireAffected(r.db.Exec(ctx,
		`UPDATE tasks SET status = $3 WHERE owner_id = $1 AND id = $2`,
		ownerID, id, string(status),
	))
}

func (r *tasksRepo) DeleteTask(ctx context.Context, ownerID, id string) error {
	return requireAffected(r.db.Exec(ctx,
		`DELETE FROM tasks WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	))
}
