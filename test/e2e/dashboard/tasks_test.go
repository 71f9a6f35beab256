package dashboard_test

import (
	"testing"

	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
	"github.com/stretchr/testify/require"
)

func TestTaskBoard(t *testing.T) {
	baseURL, cleanup := setupDashboardContainer(t)
	defer cleanup()

	ctx := t.Context()
	c := ownerClient(t, baseURL, "owner-a")

	invoice, err := c.AddTask(ctx, ledgersdk.TaskRequest{Title: "Send invoice", Status: "completed"})
	require.NoError(t, err)
	require.Equal(t, "todo", invoice.Status)
	require.Equal(t, "medium", invoice.Priority)

	call, err := c.AddTask(ctx, ledgersdk.TaskRequest{Title: "Call supplier", Priority: "high"})
	require.NoError(t, err)

	require.NoError(t, c.SetTaskStatus(ctx, call.ID, "in-progress"))

	_, err = c.EditTask(ctx, invoice.ID, ledgersdk.TaskRequest{Title: "Send invoice", Status: "completed", Priority: "low"})
	require.NoError(t, err)

	res, err := c.ListTasks(ctx)
	require.NoError(t, err)
	require.Empty(t, res.Board.Todo)
	require.Len(t, res.Board.InProgress, 1)
	require.Len(t, res.Board.Completed, 1)
	require.Equal(t, call.ID, res.Board.InProgress[0].ID)

	require.NoError(t, c.DeleteTask(ctx, invoice.ID))
	res, err = c.ListTasks(ctx)
	require.NoError(t, err)
	require.Len(t, res.Tasks, 1)
}
