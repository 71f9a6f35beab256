package postgres

import (
	"context"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store"

	"github.com/jackc/pgx/v5"
)

const clientColumns = `id, owner_id, name, email, phone, self_onboarded, onboarded_at, approval_status, created_at, updated_at`

type clientsRepo struct {
	db dbtx
}

var _ store.Clients = (*clientsRepo)(nil)

func scanClient(row pgx.Row) (domain.Client, error) {
	var (
		c             domain.Client
		selfOnboarded bool
		onboardedAt   *time.Time
		approval      *string
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
	if selfOnboarded || approval != nil {
		c.Onboarding = &domain.Onboarding{SelfOnboarded: selfOnboarded}
		if approval != nil {
			c.Onboarding.Status = domain.ApprovalStatus(*approval)
		}
		if onboardedAt != nil {
			c.Onboarding.OnboardedAt = onboardedAt.UTC()
		}
	}
	return c, nil
}

func onboardingArgs(o *domain.Onboarding) (bool, *time.Time, *string) {
	if o == nil {
		return false, nil, nil
	}
	var at *time.Time
	if !o.OnboardedAt.IsZero() {
		v := o.OnboardedAt.UTC()
		at = &v
	}
	var status *string
	if o.Status != "" {
		v := string(o.Status)
		status = &v
	}
	return o.SelfOnboarded, at, status
}

func (r *clientsRepo) queryClients(ctx context.Context, query string, args ...any) ([]domain.Client, error) {
	rows, err := r.db.Query(ctx, query, args...)
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
		`SELECT `+clientColumns+` FROM clients WHERE owner_id = $1 ORDER BY id ASC`,
		ownerID,
	)
}

func (r *clientsRepo) GetClient(ctx context.Context, ownerID, id string) (domain.Client, error) {
	c, err := scanClient(r.db.QueryRow(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	))
	if err != nil {
		return domain.Client{}, mapNotFound(err)
	}
	return c, nil
}

func (r *clientsRepo) FindClientsByEmail(ctx context.Context, ownerID, email string) ([]domain.Client, error) {
	return r.queryClients(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE owner_id = $1 AND email = $2 ORDER BY id ASC`,
		ownerID, email,
	)
}

func (r *clientsRepo) FindClientsByPhone(ctx context.Context, ownerID, phone string) ([]domain.Client, error) {
	return r.queryClients(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE owner_id = $1 AND phone = $2 ORDER BY id ASC`,
		ownerID, phone,
	)
}

func (r *clientsRepo) CreateClient(ctx context.Context, c domain.Client) error {
	self, at, status := onboardingArgs(c.Onboarding)
	_, err := r.db.Exec(ctx,
		`INSERT INTO clients (`+clientColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
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
	tag, err := r.db.Exec(ctx,
		`UPDATE clients
		 SET name = $3, email = $4, phone = $5, self_onboarded = $6, onboarded_at = $7, approval_status = $8, updated_at = $9
		 WHERE owner_id = $1 AND id = $2`,
		c.OwnerID, c.ID,
		c.Name, c.Email, c.Phone, self, at, status, c.UpdatedAt.UTC(),
	)
	if err != nil {
		return mapConflict(err)
	}
	return requireAffected(tag, nil)
}

func (r *clientsRepo) UpdateClientApproval(ctx context.Context, ownerID, id string, status domain.ApprovalStatus) error {
	return requireAffected(r.db.Exec(ctx,
		`UPDATE clients SET approval_status = $3 WHERE owner_id = $1 AND id = $2`,
		ownerID, id, string(status),
	))
}

func (r *clientsRepo) DeleteClient(ctx context.Context, ownerID, id string) error {
	return requireAffected(r.db.Exec(ctx,
		`DELETE FROM clients WHERE owner_id = $1 AND id = $2`,
		ownerID, id,
	))
}
