package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func newClient(owner, name, email, phone string) domain.Client {
	now := time.Now().UTC().Truncate(time.Second)
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

func TestClientsOwnerScoping(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	a := newClient("owner-a", "Ann", "ann@x.io", "111")
	b := newClient("owner-b", "Bob", "bob@x.io", "222")
	require.NoError(t, s.Clients().CreateClient(ctx, a))
	require.NoError(t, s.Clients().CreateClient(ctx, b))

	list, err := s.Clients().ListClientsByOwner(ctx, "owner-a")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, a.ID, list[0].ID)
	require.Nil(t, list[0].Onboarding)

	_, err = s.Clients().GetClient(ctx, "owner-a", b.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	err = s.Clients().DeleteClient(ctx, "owner-a", b.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	empty, err := s.Clients().ListClientsByOwner(ctx, "nobody")
	require.NoError(t, err)
	require.NotNil(t, empty)
	require.Empty(t, empty)
}

func TestClientsListInCreationOrder(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	var ids []string
	for i, name := range []string{"c1", "c2", "c3"} {
		c := newClient("owner", name, name+"@x.io", string(rune('0'+i)))
		ids = append(ids, c.ID)
		require.NoError(t, s.Clients().CreateClient(ctx, c))
	}

	list, err := s.Clients().ListClientsByOwner(ctx, "owner")
	require.NoError(t, err)
	require.Len(t, list, 3)
	for i := range ids {
		require.Equal(t, ids[i], list[i].ID)
	}
}

func TestClientsUniqueIndexes(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	require.NoError(t, s.Clients().CreateClient(ctx, newClient("owner", "Ann", "ann@x.io", "111")))

	err := s.Clients().CreateClient(ctx, newClient("owner", "Ann2", "ann@x.io", "999"))
	require.ErrorIs(t, err, store.ErrAlreadyExists)
	var ce *store.ConflictError
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "email", ce.Field)

	err = s.Clients().CreateClient(ctx, newClient("owner", "Ann3", "other@x.io", "111"))
	require.ErrorAs(t, err, &ce)
	require.Equal(t, "phone", ce.Field)

	// Other owners may reuse both.
	require.NoError(t, s.Clients().CreateClient(ctx, newClient("owner-2", "Ann", "ann@x.io", "111")))
}

func TestClientsFindAndReplace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	c := newClient("owner", "Ann", "ann@x.io", "111")
	c.Onboarding = &domain.Onboarding{
		SelfOnboarded: true,
		OnboardedAt:   c.CreatedAt,
		Status:        domain.ApprovalPending,
	}
	require.NoError(t, s.Clients().CreateClient(ctx, c))

	byEmail, err := s.Clients().FindClientsByEmail(ctx, "owner", "ann@x.io")
	require.NoError(t, err)
	require.Len(t, byEmail, 1)

	byPhone, err := s.Clients().FindClientsByPhone(ctx, "owner", "000")
	require.NoError(t, err)
	require.Empty(t, byPhone)

	c.Name = "Annie"
	c.UpdatedAt = c.UpdatedAt.Add(time.Minute)
	require.NoError(t, s.Clients().ReplaceClient(ctx, c))

	require.NoError(t, s.Clients().UpdateClientApproval(ctx, "owner", c.ID, domain.ApprovalApproved))

	got, err := s.Clients().GetClient(ctx, "owner", c.ID)
	require.NoError(t, err)
	require.Equal(t, "Annie", got.Name)
	require.NotNil(t, got.Onboarding)
	require.True(t, got.Onboarding.SelfOnboarded)
	require.Equal(t, domain.ApprovalApproved, got.Onboarding.Status)
	require.True(t, got.UpdatedAt.Equal(c.UpdatedAt))
}

func TestTasksLifecycle(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	due := now.Add(48 * time.Hour)
	task := domain.Task{
		ID:        idx.New().String(),
		OwnerID:   "owner",
		Title:     "Write invoice",
		Status:    domain.TaskTodo,
		Priority:  domain.PriorityMedium,
		DueAt:     &due,
		CreatedAt: now,
	}
	require.NoError(t, s.Tasks().CreateTask(ctx, task))

	got, err := s.Tasks().GetTask(ctx, "owner", task.ID)
	require.NoError(t, err)
	require.Nil(t, got.UpdatedAt)
	require.NotNil(t, got.DueAt)
	require.True(t, got.DueAt.Equal(due))

	require.NoError(t, s.Tasks().UpdateTaskStatus(ctx, "owner", task.ID, domain.TaskInProgress))
	got, err = s.Tasks().GetTask(ctx, "owner", task.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskInProgress, got.Status)
	require.Nil(t, got.UpdatedAt)

	edited := now.Add(time.Hour)
	got.Title = "Send invoice"
	got.DueAt = nil
	got.UpdatedAt = &edited
	require.NoError(t, s.Tasks().ReplaceTask(ctx, got))

	got, err = s.Tasks().GetTask(ctx, "owner", task.ID)
	require.NoError(t, err)
	require.Equal(t, "Send invoice", got.Title)
	require.Nil(t, got.DueAt)
	require.NotNil(t, got.UpdatedAt)
	require.True(t, got.CreatedAt.Equal(now))

	require.ErrorIs(t, s.Tasks().UpdateTaskStatus(ctx, "other", task.ID, domain.TaskCompleted), store.ErrNotFound)
	require.NoError(t, s.Tasks().DeleteTask(ctx, "owner", task.ID))
	require.ErrorIs(t, s.Tasks().DeleteTask(ctx, "owner", task.ID), store.ErrNotFound)
}

func TestWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	boom := store.ErrAlreadyExists
	err := s.WithTx(ctx, func(tx store.Store) error {
		require.NoError(t, tx.Clients().CreateClient(ctx, newClient("owner", "Ann", "ann@x.io", "111")))
		return boom
	})
	require.ErrorIs(t, err, boom)

	list, err := s.Clients().ListClientsByOwner(ctx, "owner")
	require.NoError(t, err)
	require.Empty(t, list)
}
