package http

import (
	"net/http"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
)

type TasksHandler struct {
	TaskService *service.TaskService
}

// HandleList handles GET /v1/tasks
//
//	@Summary		List tasks
//	@Description	Returns the caller's tasks and the same tasks split into todo, in-progress and completed columns.
//	@Tags			Tasks
//	@Produce		json
//	@Security		BearerAuth
//	@Success		200	{object}	ledgersdk.ListTasksResponse
//	@Router			/v1/tasks [get]
func (h *TasksHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	tasks, err := h.TaskService.List(r.Context(), owner)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ledgersdk.ListTasksResponse{
		Tasks: toTaskResponses(tasks),
		Board: toBoardResponse(domain.Partition(tasks)),
	})
}

// HandleCreate handles POST /v1/tasks
//
//	@Summary		Add a task
//	@Description	New tasks always start as todo; a status in the body is ignored. Priority defaults to medium.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			request	body		ledgersdk.TaskRequest	true	"Task"
//	@Success		201		{object}	ledgersdk.TaskResponse
//	@Failure		400		{object}	httpx.ErrorResponse
//	@Router			/v1/tasks [post]
func (h *TasksHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	var req ledgersdk.TaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		ledgersdk.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}

	t, err := h.TaskService.Add(r.Context(), owner, taskDraft(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, toTaskResponse(t))
}

// HandleUpdate handles PUT /v1/tasks/{id}
//
//	@Summary		Edit a task
//	@Description	Replaces title, description, status, priority and due date, and stamps updated_at.
//	@Tags			Tasks
//	@Accept			json
//	@Produce		json
//	@Security		BearerAuth
//	@Param			id		path		string					true	"Task ID"
//	@Param			request	body		ledgersdk.TaskRequest	true	"Task"
//	@Success		200		{object}	ledgersdk.TaskResponse
//	@Failure		404		{object}	httpx.ErrorResponse
//	@Router			/v1/tasks/{id} [put]
func (h *TasksHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	var req ledgersdk.TaskRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		ledgersdk.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}

	t, err := h.TaskService.Edit(r.Context(), owner, r.PathValue("id"), taskDraft(req))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toTaskResponse(t))
}

// HandleStatus handles PATCH /v1/tasks/{id}/status
//
//	@Summary		Move a task to another column
//	@Description	Changes only the status field.
//	@Tags			Tasks
//	@Accept			json
//	@Security		BearerAuth
//	@Param			id		path	string					true	"Task ID"
//	@Param			request	body	ledgersdk.StatusRequest	true	"todo, in-progress or completed"
//	@Success		204
//	@Failure		400	{object}	httpx.ErrorResponse
//	@Failure		404	{object}	httpx.ErrorResponse
//	@Router			/v1/tasks/{id}/status [patch]
func (h *TasksHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}

	var req ledgersdk.StatusRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		ledgersdk.ErrInvalidRequest.WithDescription("invalid JSON in request body").WriteError(w)
		return
	}

	if err := h.TaskService.SetStatus(r.Context(), owner, r.PathValue("id"), domain.TaskStatus(req.Status)); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDelete handles DELETE /v1/tasks/{id}
//
//	@Summary	Delete a task
//	@Tags		Tasks
//	@Security	BearerAuth
//	@Param		id		path	string	true	"Task ID"
//	@Param		confirm	query	bool	true	"Must be true"
//	@Success	204
//	@Failure	428	{object}	httpx.ErrorResponse	"confirmation_required"
//	@Router		/v1/tasks/{id} [delete]
func (h *TasksHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	if !confirmed(r) {
		ledgersdk.ErrConfirmationRequired.WriteError(w)
		return
	}

	if err := h.TaskService.Delete(r.Context(), owner, r.PathValue("id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
