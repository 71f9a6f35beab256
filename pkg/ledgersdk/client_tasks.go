package ledgersdk

import (
	"context"
	"net/http"
	"net/url"
)

func (c *Client) ListTasks(ctx context.Context) (*ListTasksResponse, error) {
	var out ListTasksResponse
	if err := c.do(ctx, http.MethodGet, "/v1/tasks", nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// AddTask creates a task. The server forces its status to todo.
func (c *Client) AddTask(ctx context.Context, req TaskRequest) (*TaskResponse, error) {
	var out TaskResponse
	if err := c.do(ctx, http.MethodPost, "/v1/tasks", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// EditTask replaces every editable field of the task.
func (c *Client) EditTask(ctx context.Context, id string, req TaskRequest) (*TaskResponse, error) {
	var out TaskResponse
	if err := c.do(ctx, http.MethodPut, "/v1/tasks/"+url.PathEscape(id), req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SetTaskStatus changes only the status.
func (c *Client) SetTaskStatus(ctx context.Context, id, status string) error {
	return c.do(ctx, http.MethodPatch, "/v1/tasks/"+url.PathEscape(id)+"/status",
		StatusRequest{Status: status}, nil, http.StatusNoContent)
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/v1/tasks/"+url.PathEscape(id)+"?confirm=true", nil, nil, http.StatusNoContent)
}
