package sqlite

import (
	"context"
	"database/sql"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store"
)

const clientColumns = `id, owner_id, name, email, phone, self_onboarded, onboarded_at, approval_status, created_at, updated_at`

type clientsRepo struct {
	db dbtx
}

var _ store.Clients = (*clientsRepo)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanClient(row rowScanner) (domain.Client, error) {
	var (
		c             domain.Client
		selfOnboarded bool
		onboardedAt   sql.NullTime
		approval      sql.NullString
	)
	if err := row.Scan(
		&c.ID, &c.OwnerID, &c.Name, &c.Email, &c.Phone,
		&selfOnboarded, &onboardedAt, &approval,
		&c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return domain.Client{}, err
	}

	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	if selfOnboarded || approval.Valid {
		c.Onboarding = &domain.Onboarding{
			SelfOnboarded: selfOnboarded,
			Status:        domain.ApprovalStatus(approval.String),
		}
		if onboardedAt.Valid {
			c.Onboarding.OnboardedAt = onboardedAt.Time.UTC()
		}
	}
	return c, nil
}

func onboardingArgs(o *domain.Onboarding) (bool, sql.NullTime, sql.NullString) {
	if o == nil {
		return false, sql.NullTime{}, sql.NullString{}
	}
	at := sql.NullTime{}
	if !o.OnboardedAt.IsZero() {
		at = sql.NullTime{Time: o.OnboardedAt.UTC(), Valid: true}
	}
	status := sql.NullString{}
	if o.Status != "" {
		status = sql.NullString{String: string(o.Status), Valid: true}
	}
	return o.SelfOnboarded, at, status
}

func (r *clientsRepo) queryClients(ctx context.Context, query string, args ...any) ([]domain.Client, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientsRepo) ListClientsByOwner(ctx context.Context, ownerID string) ([]domain.Client, error) {
	return r.queryClients(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE owner_id = ? ORDER BY id ASC`,
		ownerID,
	)
}

func (r *clientsRepo) GetClient(ctx context.Context, ownerID, id string) (domain.Client, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	)
	c, err := scanClient(row)
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) FindClientsByEmail(ctx context.Context, ownerID, email string) ([]domain.Client, error) {
	return r.queryClients(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE owner_id = ? AND email = ? ORDER BY id ASC`,
		ownerID, email,
	)
}

func (r *clientsRepo) FindClientsByPhone(ctx context.Context, ownerID, phone string) ([]domain.Client, error) {
	return r.queryClients(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE owner_id = ? AND phone = ? ORDER BY id ASC`,
		ownerID, phone,
	)
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	self, at, status := onboardingArgs(c.Onboarding)
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO clients (`+clientColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, c.Email, c.Phone,
		self, at, status,
		c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapConflict(err)
	}
	return nil
}

func (r *clientsRepo) ReplaceClient(ctx context.Context, c domain.Client) error {
	self, at, status := onboardingArgs(c.Onboarding)
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients
		 SET name = ?, email = ?, phone = ?, self_onboarded = ?, onboarded_at = ?, approval_status = ?, updated_at = ?
		 WHERE owner_id = ? AND id = ?`,
		c.Name, c.Email, c.Phone, self, at, status, c.UpdatedAt.UTC(),
		c.OwnerID, c.ID,
	)
	if err != nil {
		return mapConflict(err)
	}
	return requireAffected(res, nil)
}

func (r *clientsRepo) UpdateClientApproval(ctx context.Context, ownerID, id string, status domain.ApprovalStatus) error {
	return requireAffected(r.db.ExecContext(ctx,
		`UPDATE clients SET approval_status = ? WHERE owner_id = ? AND id = ?`,
		string(status), ownerID, id,
	))
}

func (r *clientsRepo) DeleteClient(ctx context.Context, ownerID, id string) error {
	return requireAffected(r.db.ExecContext(ctx,
		`DELETE FROM clients WHERE owner_id = ? AND id = ?`,
		ownerID, id,
	))
}
