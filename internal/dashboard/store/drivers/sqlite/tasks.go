package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store"
)

const taskColumns = `id, owner_id, title, description, status, priority, due_at, created_at, updated_at`

type tasksRepo struct {
	db dbtx
}

var _ store.Tasks = (*tasksRepo)(nil)

func scanTask(row rowScanner) (domain.Task, error) {
	var (
		t         domain.Task
		status    string
		priority  string
		dueAt     sql.NullTime
		updatedAt sql.NullTime
	)
	if err := row.Scan(
		&t.ID, &t.OwnerID, &t.Title, &t.Description,
		&status, &priority, &dueAt, &t.CreatedAt, &updatedAt,
	); err != nil {
		return domain.Task{}, err
	}
	t.Status = domain.TaskStatus(status)
	t.Priority = domain.Priority(priority)
	t.DueAt = mapNullTimePtr(dueAt)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = mapNullTimePtr(updatedAt)
	return t, nil
}

func (r *tasksRepo) ListTasksByOwner(ctx context.Context, ownerID string) ([]domain.Task, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? ORDER BY id ASC`,
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
	row := r.db.QueryRowContext(ctx,
		`SELECT `+taskColumns+` FROM tasks WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	)
	t, err := scanTask(row)
	if err != nil {
		return domain.Task{}, mapNotFound(err)
	}
	return t, nil
}

func (r *tasksRepo) CreateTask(ctx context.Context, t domain.Task) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO tasks (`+taskColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.OwnerID, t.Title, t.Description,
		string(t.Status), string(t.Priority),
		mapOptionalTime(t.DueAt), t.CreatedAt.UTC(), mapOptionalTime(t.UpdatedAt),
	)
	return mapConflict(err)
}

func (r *tasksRepo) ReplaceTask(ctx context.Context, t domain.Task) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE tasks
		 SET title = ?, description = ?, status = ?, priority = ?, due_at = ?, updated_at = ?
		 WHERE owner_id = ? AND id = ?`,
		t.Title, t.Description, string(t.Status), string(t.Priority),
		mapOptionalTime(t.DueAt), mapOptionalTime(t.UpdatedAt),
		t.OwnerID, t.ID,
	))
}

func (r *tasksRepo) UpdateTaskStatus(ctx context.Context, ownerID, id string, status domain.TaskStatus) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE tasks SET status = ? WHERE owner_id = ? AND id = ?`,
		string(status), ownerID, id,
	))
}

func (r *tasksRepo) DeleteTask(ctx context.Context, ownerID, id string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	))
}
