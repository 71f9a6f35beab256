package postgres

import (
	"context"
	"os/exec"
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
)

// testcontainers panics instead of erroring when docker is missing.
func dockerAvailable() bool {
	return exec.Command("docker", "info").Run() == nil
}

func newTestStore(t *testing.T) *Store {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres container test in short mode")
	}
	if !dockerAvailable() {
		t.Skip("docker not available")
	}

	ctx := context.Background()
	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("ledger"),
		tcpostgres.WithUsername("ledger"),
		tcpostgres.WithPassword("ledger"),
		tcpostgres.BasicWaitStrategies(),
	)
	if err != nil {
		t.Skipf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := testcontainers.TerminateContainer(container); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	s, err := NewStore(dsn, WithMaxConns(4), WithMinConns(1), WithConnectTimeout(30*time.Second))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	// Second run is a no-op.
	require.NoError(t, s.ApplyMigrations())
	return s
}

func newClient(owner, name, email, phone string) domain.Client {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return domain.Client{
		ID:        idx.New().String(),
		OwnerID:   owner,
		Name:      name,
		Email:     email,
		Phone:     phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestPostgresStore(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	t.Run("clients are owner scoped", func(t *testing.T) {
		a := newClient("pg-a", "Ann", "ann@x.io", "111")
		require.NoError(t, s.Clients().CreateClient(ctx, a))

		list, err := s.Clients().ListClientsByOwner(ctx, "pg-a")
		require.NoError(t, err)
		require.Len(t, list, 1)

		_, err = s.Clients().GetClient(ctx, "pg-b", a.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("unique constraints name the field", func(t *testing.T) {
		require.NoError(t, s.Clients().CreateClient(ctx, newClient("pg-u", "Ann", "u@x.io", "500")))

		var ce *store.ConflictError
		err := s.Clients().CreateClient(ctx, newClient("pg-u", "Dup", "u@x.io", "501"))
		require.ErrorAs(t, err, &ce)
		require.Equal(t, "email", ce.Field)

		err = s.Clients().CreateClient(ctx, newClient("pg-u", "Dup", "v@x.io", "500"))
		require.ErrorAs(t, err, &ce)
		require.Equal(t, "phone", ce.Field)
	})

	t.Run("onboarding round trip", func(t *testing.T) {
		c := newClient("pg-o", "Self", "self@x.io", "700")
		c.Onboarding = &domain.Onboarding{SelfOnboarded: true, OnboardedAt: c.CreatedAt, Status: domain.ApprovalPending}
		require.NoError(t, s.Clients().CreateClient(ctx, c))
		require.NoError(t, s.Clients().UpdateClientApproval(ctx, "pg-o", c.ID, domain.ApprovalRejected))

		got, err := s.Clients().GetClient(ctx, "pg-o", c.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Onboarding)
		require.Equal(t, domain.ApprovalRejected, got.Onboarding.Status)
		require.True(t, got.Onboarding.OnboardedAt.Equal(c.CreatedAt))
	})

	t.Run("tasks status update leaves updated_at alone", func(t *testing.T) {
		task := domain.Task{
			ID:        idx.New().String(),
			OwnerID:   "pg-t",
			Title:     "Call back",
			Status:    domain.TaskTodo,
			Priority:  domain.PriorityHigh,
			CreatedAt: time.Now().UTC().Truncate(time.Millisecond),
		}
		require.NoError(t, s.Tasks().CreateTask(ctx, task))
		require.NoError(t, s.Tasks().UpdateTaskStatus(ctx, "pg-t", task.ID, domain.TaskCompleted))

		got, err := s.Tasks().GetTask(ctx, "pg-t", task.ID)
		require.NoError(t, err)
		require.Equal(t, domain.TaskCompleted, got.Status)
		require.Nil(t, got.UpdatedAt)

		require.NoError(t, s.Tasks().DeleteTask(ctx, "pg-t", task.ID))
		_, err = s.Tasks().GetTask(ctx, "pg-t", task.ID)
		require.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("transaction rolls back on error", func(t *testing.T) {
		err := s.WithTx(ctx, func(tx store.Store) error {
			require.NoError(t, tx.Clients().CreateClient(ctx, newClient("pg-tx", "Ann", "tx@x.io", "900")))
			return store.ErrAlreadyExists
		})
		require.ErrorIs(t, err, store.ErrAlreadyExists)

		list, err := s.Clients().ListClientsByOwner(ctx, "pg-tx")
		require.NoError(t, err)
		require.Empty(t, list)
	})
}
