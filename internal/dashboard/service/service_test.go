package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store/drivers/sqlite"
	"github.com/aussiebroadwan/ledger/pkg/metricsx"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	s, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestClientAddRejectsCaseInsensitiveDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	m := metricsx.New()
	svc := &ClientService{Store: newTestStore(t), Metrics: m}

	_, err := svc.Add(ctx, "U", domain.ClientDraft{Name: "A", Email: "a@x.com", Phone: "1"})
	require.NoError(t, err)

	_, err = svc.Add(ctx, "U", domain.ClientDraft{Name: "B", Email: "A@X.com", Phone: "2"})
	require.ErrorIs(t, err, ErrDuplicateClient)

	var de *DuplicateError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "email", de.Field)

	list, err := svc.List(ctx, "U")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "a@x.com", list[0].Email)

	expected := `
# HELP ledger_client_duplicate_rejections_total Client writes rejected because email or phone is already used by the owner.
# TYPE ledger_client_duplicate_rejections_total counter
ledger_client_duplicate_rejections_total{field="email"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "ledger_client_duplicate_rejections_total"))
}

func TestClientAddRejectsDuplicatePhone(t *testing.T) {
	ctx := context.Background()
	svc := &ClientService{Store: newTestStore(t)}

	_, err := svc.Add(ctx, "U", domain.ClientDraft{Name: "A", Email: "a@x.com", Phone: "555"})
	require.NoError(t, err)

	_, err = svc.Add(ctx, "U", domain.ClientDraft{Name: "B", Email: "b@x.com", Phone: " 555 "})
	var de *DuplicateError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "phone", de.Field)

	// Another owner is unaffected.
	_, err = svc.Add(ctx, "V", domain.ClientDraft{Name: "B", Email: "a@x.com", Phone: "555"})
	require.NoError(t, err)
}

func TestClientAddNormalizesAndRequiresFields(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := &ClientService{Store: newTestStore(t), Now: fixedClock(now)}

	_, err := svc.Add(ctx, "U", domain.ClientDraft{Name: "A", Email: "  ", Phone: "1"})
	require.ErrorIs(t, err, ErrMissingField)
	require.Contains(t, err.Error(), "email")

	_, err = svc.Add(ctx, "", domain.ClientDraft{Name: "A", Email: "a@x.com", Phone: "1"})
	require.ErrorIs(t, err, ErrMissingOwner)

	c, err := svc.Add(ctx, "U", domain.ClientDraft{Name: " Ann ", Email: " Ann@Example.COM ", Phone: "1"})
	require.NoError(t, err)
	require.Equal(t, "Ann", c.Name)
	require.Equal(t, "ann@example.com", c.Email)
	require.Equal(t, "U", c.OwnerID)
	require.Nil(t, c.Onboarding)
	require.True(t, c.CreatedAt.Equal(now))
}

func TestClientEdit(t *testing.T) {
	ctx := context.Background()
	svc := &ClientService{Store: newTestStore(t)}

	a, err := svc.Add(ctx, "U", domain.ClientDraft{Name: "A", Email: "a@x.com", Phone: "1"})
	require.NoError(t, err)
	b, err := svc.Add(ctx, "U", domain.ClientDraft{Name: "B", Email: "b@x.com", Phone: "2"})
	require.NoError(t, err)

	t.Run("own unchanged email is not a duplicate", func(t *testing.T) {
		got, err := svc.Edit(ctx, "U", a.ID, domain.ClientDraft{Name: "A2", Email: "A@x.com", Phone: "1"})
		require.NoError(t, err)
		require.Equal(t, "A2", got.Name)
		require.Equal(t, "a@x.com", got.Email)
	})

	t.Run("another client's email is rejected", func(t *testing.T) {
		_, err := svc.Edit(ctx, "U", a.ID, domain.ClientDraft{Name: "A", Email: "b@x.com", Phone: "1"})
		require.ErrorIs(t, err, ErrDuplicateClient)

		got, err := svc.Get(ctx, "U", a.ID)
		require.NoError(t, err)
		require.Equal(t, "a@x.com", got.Email)
	})

	t.Run("another owner's id is not found", func(t *testing.T) {
		_, err := svc.Edit(ctx, "V", b.ID, domain.ClientDraft{Name: "B", Email: "b@x.com", Phone: "2"})
		require.ErrorIs(t, err, ErrClientNotFound)
	})
}

func TestClientDeleteIsOwnerScoped(t *testing.T) {
	ctx := context.Background()
	svc := &ClientService{Store: newTestStore(t)}

	u, err := svc.Add(ctx, "U", domain.ClientDraft{Name: "A", Email: "a@x.com", Phone: "1"})
	require.NoError(t, err)
	v, err := svc.Add(ctx, "V", domain.ClientDraft{Name: "A", Email: "a@x.com", Phone: "1"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Delete(ctx, "U", v.ID), ErrClientNotFound)
	require.NoError(t, svc.Delete(ctx, "U", u.ID))

	list, err := svc.List(ctx, "U")
	require.NoError(t, err)
	require.Empty(t, list)

	list, err = svc.List(ctx, "V")
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestClientOnboardAndApproval(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	svc := &ClientService{Store: newTestStore(t), Now: fixedClock(now)}

	self, err := svc.Onboard(ctx, "U", domain.ClientDraft{Name: "S", Email: "s@x.com", Phone: "9"})
	require.NoError(t, err)
	require.NotNil(t, self.Onboarding)
	require.True(t, self.Onboarding.SelfOnboarded)
	require.Equal(t, domain.ApprovalPending, self.Onboarding.Status)

	_, err = svc.Onboard(ctx, "U", domain.ClientDraft{Name: "S2", Email: "S@x.com", Phone: "8"})
	require.ErrorIs(t, err, ErrDuplicateClient)

	got, err := svc.SetApproval(ctx, "U", self.ID, domain.ApprovalApproved)
	require.NoError(t, err)
	require.Equal(t, domain.ApprovalApproved, got.Onboarding.Status)

	// Editing keeps onboarding metadata.
	edited, err := svc.Edit(ctx, "U", self.ID, domain.ClientDraft{Name: "S", Email: "s@x.com", Phone: "10"})
	require.NoError(t, err)
	require.NotNil(t, edited.Onboarding)
	require.Equal(t, domain.ApprovalApproved, edited.Onboarding.Status)

	manual, err := svc.Add(ctx, "U", domain.ClientDraft{Name: "M", Email: "m@x.com", Phone: "7"})
	require.NoError(t, err)
	_, err = svc.SetApproval(ctx, "U", manual.ID, domain.ApprovalApproved)
	require.ErrorIs(t, err, ErrNotOnboarded)

	_, err = svc.SetApproval(ctx, "V", self.ID, domain.ApprovalRejected)
	require.ErrorIs(t, err, ErrClientNotFound)
}

func TestTaskAddForcesTodo(t *testing.T) {
	ctx := context.Background()
	svc := &TaskService{Store: newTestStore(t)}

	_, err := svc.Add(ctx, "U", domain.TaskDraft{
		Title:       "T1",
		Description: "d",
		Priority:    domain.PriorityLow,
		Status:      domain.TaskCompleted,
	})
	require.NoError(t, err)

	list, err := svc.List(ctx, "U")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, domain.TaskTodo, list[0].Status)
	require.Equal(t, domain.PriorityLow, list[0].Priority)
	require.Nil(t, list[0].UpdatedAt)
}

func TestTaskAddValidation(t *testing.T) {
	ctx := context.Background()
	svc := &TaskService{Store: newTestStore(t)}

	_, err := svc.Add(ctx, "U", domain.TaskDraft{Title: "   "})
	require.ErrorIs(t, err, ErrMissingField)

	_, err = svc.Add(ctx, "U", domain.TaskDraft{Title: "x", Priority: "urgent"})
	require.ErrorIs(t, err, domain.ErrInvalidPriority)

	_, err = svc.Add(ctx, "", domain.TaskDraft{Title: "x"})
	require.ErrorIs(t, err, ErrMissingOwner)

	task, err := svc.Add(ctx, "U", domain.TaskDraft{Title: "x"})
	require.NoError(t, err)
	require.Equal(t, domain.PriorityMedium, task.Priority)
}

func TestTaskSetStatusChangesOnlyStatus(t *testing.T) {
	ctx := context.Background()
	svc := &TaskService{Store: newTestStore(t)}

	due := time.Date(2026, 5, 4, 12, 0, 0, 0, time.UTC)
	task, err := svc.Add(ctx, "U", domain.TaskDraft{
		Title:       "Quote",
		Description: "send quote",
		Priority:    domain.PriorityHigh,
		DueAt:       &due,
	})
	require.NoError(t, err)

	before, err := svc.Get(ctx, "U", task.ID)
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(ctx, "U", task.ID, domain.TaskInProgress))

	after, err := svc.Get(ctx, "U", task.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TaskInProgress, after.Status)

	after.Status = before.Status
	require.Equal(t, before, after)

	require.ErrorIs(t, svc.SetStatus(ctx, "U", task.ID, "done"), domain.ErrInvalidTaskStatus)
	require.ErrorIs(t, svc.SetStatus(ctx, "V", task.ID, domain.TaskCompleted), ErrTaskNotFound)
}

func TestTaskEditReplacesAndStamps(t *testing.T) {
	ctx := context.Background()
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	svc := &TaskService{Store: newTestStore(t), Now: fixedClock(created)}

	due := created.Add(24 * time.Hour)
	task, err := svc.Add(ctx, "U", domain.TaskDraft{Title: "Old", Description: "old", DueAt: &due})
	require.NoError(t, err)

	edited := created.Add(time.Hour)
	svc.Now = fixedClock(edited)
	got, err := svc.Edit(ctx, "U", task.ID, domain.TaskDraft{
		Title:    "New",
		Status:   domain.TaskCompleted,
		Priority: domain.PriorityHigh,
	})
	require.NoError(t, err)
	require.Equal(t, "New", got.Title)
	require.Empty(t, got.Description)
	require.Nil(t, got.DueAt)
	require.Equal(t, domain.TaskCompleted, got.Status)

	stored, err := svc.Get(ctx, "U", task.ID)
	require.NoError(t, err)
	require.True(t, stored.CreatedAt.Equal(created))
	require.NotNil(t, stored.UpdatedAt)
	require.True(t, stored.UpdatedAt.Equal(edited))

	_, err = svc.Edit(ctx, "V", task.ID, domain.TaskDraft{Title: "x"})
	require.ErrorIs(t, err, ErrTaskNotFound)
}

func TestTaskBoardPartitions(t *testing.T) {
	ctx := context.Background()
	svc := &TaskService{Store: newTestStore(t)}

	a, err := svc.Add(ctx, "U", domain.TaskDraft{Title: "a"})
	require.NoError(t, err)
	b, err := svc.Add(ctx, "U", domain.TaskDraft{Title: "b"})
	require.NoError(t, err)
	c, err := svc.Add(ctx, "U", domain.TaskDraft{Title: "c"})
	require.NoError(t, err)

	require.NoError(t, svc.SetStatus(ctx, "U", b.ID, domain.TaskInProgress))
	require.NoError(t, svc.SetStatus(ctx, "U", c.ID, domain.TaskCompleted))

	board, err := svc.Board(ctx, "U")
	require.NoError(t, err)
	require.Len(t, board.Todo, 1)
	require.Equal(t, a.ID, board.Todo[0].ID)
	require.Len(t, board.InProgress, 1)
	require.Len(t, board.Completed, 1)

	require.NoError(t, svc.Delete(ctx, "U", a.ID))
	require.ErrorIs(t, svc.Delete(ctx, "U", a.ID), ErrTaskNotFound)
}

func TestOnboardingLink(t *testing.T) {
	require.Equal(t, "https://ledger.example/onboard/u1", OnboardingLink("https://ledger.example/onboard/", "u1"))
	require.Equal(t, "https://ledger.example/onboard/u1", OnboardingLink("https://ledger.example/onboard", "u1"))
	require.Equal(t, OnboardingLink("b", "x"), OnboardingLink("b", "x"))
}

// racingStore hides existing clients from the duplicate lookups, as if
// another writer committed between the check and the insert.
type racingStore struct{ store.Store }

func (s racingStore) Clients() store.Clients { return blindClients{s.Store.Clients()} }

type blindClients struct{ store.Clients }

func (blindClients) FindClientsByEmail(context.Context, string, string) ([]domain.Client, error) {
	return nil, nil
}

func (blindClients) FindClientsByPhone(context.Context, string, string) ([]domain.Client, error) {
	return nil, nil
}

func TestClientAddRaceEndsInDuplicateError(t *testing.T) {
	ctx := context.Background()
	backing := newTestStore(t)
	m := metricsx.New()

	seed := &ClientService{Store: backing}
	_, err := seed.Add(ctx, "U", domain.ClientDraft{Name: "A", Email: "a@x.com", Phone: "555"})
	require.NoError(t, err)

	svc := &ClientService{Store: racingStore{backing}, Metrics: m}

	_, err = svc.Add(ctx, "U", domain.ClientDraft{Name: "B", Email: "b@x.com", Phone: "555"})
	require.ErrorIs(t, err, ErrDuplicateClient)
	var de *DuplicateError
	require.ErrorAs(t, err, &de)
	require.Equal(t, "phone", de.Field)

	_, err = svc.Add(ctx, "U", domain.ClientDraft{Name: "C", Email: "A@X.com", Phone: "556"})
	require.ErrorAs(t, err, &de)
	require.Equal(t, "email", de.Field)

	list, err := seed.List(ctx, "U")
	require.NoError(t, err)
	require.Len(t, list, 1)

	expected := `
# HELP ledger_client_duplicate_rejections_total Client writes rejected because email or phone is already used by the owner.
# TYPE ledger_client_duplicate_rejections_total counter
ledger_client_duplicate_rejections_total{field="email"} 1
ledger_client_duplicate_rejections_total{field="phone"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "ledger_client_duplicate_rejections_total"))
}

func TestConcurrentAddsStoreOneClient(t *testing.T) {
	ctx := context.Background()
	svc := &ClientService{Store: newTestStore(t)}

	const n = 20
	errs := make(chan error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Add(ctx, "U", domain.ClientDraft{Name: "A", Email: "same@x.com", Phone: strconv.Itoa(i)})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		var de *DuplicateError
		require.ErrorAs(t, err, &de)
		require.Equal(t, "email", de.Field)
	}
	require.Equal(t, 1, ok)

	list, err := svc.List(ctx, "U")
	require.NoError(t, err)
	require.Len(t, list, 1)
}
