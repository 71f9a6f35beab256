package view

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/controller"
	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/stretchr/testify/require"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer()
	require.NoError(t, err)
	return r
}

func TestClientTableEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).ClientTable(&buf, nil))
	require.Equal(t, 0, strings.Count(buf.String(), `class="client-row"`))
	require.Contains(t, buf.String(), "<table")
}

func TestClientTableRowsInOrder(t *testing.T) {
	clients := []domain.Client{
		{ID: "01B", Name: "Bea", Email: "bea@x.io", Phone: "2"},
		{ID: "01A", Name: "Al <script>", Email: "al@x.io", Phone: "1",
			Onboarding: &domain.Onboarding{SelfOnboarded: true, Status: domain.ApprovalPending}},
	}

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).ClientTable(&buf, clients))
	out := buf.String()

	require.Equal(t, 2, strings.Count(out, `class="client-row"`))
	require.Less(t, strings.Index(out, `data-id="01B"`), strings.Index(out, `data-id="01A"`))
	require.Contains(t, out, "/clients?modal=view&amp;id=01B")
	require.Contains(t, out, "/clients?modal=edit&amp;id=01A")
	require.Contains(t, out, `action="/clients/01A/delete"`)
	require.Contains(t, out, "pending approval")
	require.NotContains(t, out, "<script>")
}

func TestClientPageModalAndNotices(t *testing.T) {
	c := domain.Client{ID: "01A", Name: "Al", Email: "al@x.io", Phone: "1", CreatedAt: time.Now()}
	data := ClientPageData{
		State: controller.ClientState{
			Clients:        []domain.Client{c},
			Modal:          controller.Editing("01A"),
			Draft:          domain.ClientDraft{Name: "Al", Email: "taken@x.io", Phone: "1"},
			OnboardingLink: "https://ledger.example/onboard/u1",
		},
		Notices: []controller.Notice{{Level: controller.NoticeError, Message: "A client with this email already exists."}},
	}

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).ClientPage(&buf, data))
	out := buf.String()

	require.Contains(t, out, "Edit client")
	require.Contains(t, out, `value="taken@x.io"`)
	require.Contains(t, out, `name="id" value="01A"`)
	require.Contains(t, out, `notice error`)
	require.Contains(t, out, "https://ledger.example/onboard/u1")
}

func TestClientPageConfirmPrompt(t *testing.T) {
	data := ClientPageData{
		Confirm: &ConfirmPrompt{Message: "Delete this client?", Action: "/clients/01A/delete", Cancel: "/clients"},
	}

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).ClientPage(&buf, data))
	require.Contains(t, buf.String(), `name="confirm" value="yes"`)
	require.Contains(t, buf.String(), "Delete this client?")
}

func TestTaskPageColumns(t *testing.T) {
	tasks := []domain.Task{
		{ID: "t1", Title: "First", Status: domain.TaskTodo, Priority: domain.PriorityLow},
		{ID: "t2", Title: "Second", Status: domain.TaskCompleted, Priority: domain.PriorityHigh},
	}
	data := TaskPageData{
		State: controller.TaskState{
			Tasks: tasks,
			Board: domain.Partition(tasks),
			Modal: controller.Adding(),
			Draft: domain.TaskDraft{Priority: domain.PriorityMedium},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).TaskPage(&buf, data))
	out := buf.String()

	require.Contains(t, out, "Add task")
	require.Equal(t, 3, strings.Count(out, `class="column"`))

	todo := strings.Index(out, `data-status="todo"`)
	done := strings.Index(out, `data-status="completed"`)
	require.Less(t, todo, strings.Index(out, `data-id="t1"`))
	require.Less(t, done, strings.Index(out, `data-id="t2"`))
	require.Contains(t, out, `action="/tasks/t1/status"`)
	require.Contains(t, out, "priority-high")
}

func TestTaskTimesRenderInUTC(t *testing.T) {
	due := time.Date(2026, 11, 1, 19, 30, 0, 0, time.FixedZone("AEST", 10*60*60))
	tasks := []domain.Task{{ID: "t1", Title: "Invoice", Status: domain.TaskTodo, Priority: domain.PriorityMedium, DueAt: &due}}
	data := TaskPageData{
		State: controller.TaskState{
			Tasks: tasks,
			Board: domain.Partition(tasks),
			Modal: controller.Editing("t1"),
			Draft: domain.TaskDraft{Title: "Invoice", Status: domain.TaskTodo, Priority: domain.PriorityMedium, DueAt: &due},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, newRenderer(t).TaskPage(&buf, data))
	out := buf.String()

	require.Contains(t, out, "Due 1 Nov 2026 09:30")
	require.Contains(t, out, `value="2026-11-01T09:30"`)
}
