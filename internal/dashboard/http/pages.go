package http

import (
	"bytes"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/controller"
	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/view"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// PagesHandler serves the server-rendered dashboard. Page state lives in the
// registry, keyed by owner, so a redirect after a POST shows the result.
type PagesHandler struct {
	Pages    *controller.Registry
	Renderer *view.Renderer
}

// HandleClients handles GET /clients. The modal query opens or closes a
// form; without it the page is reloaded from the store.
func (h *PagesHandler) HandleClients(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	query := r.URL.Query()
	modal := query.Get("modal")
	var page *controller.ClientPage
	if modal == "" {
		page = h.Pages.ReloadClientPage(ctx, owner)
	} else {
		page = h.Pages.ClientPage(ctx, owner)
	}

	status := http.StatusOK
	id := query.Get("id")
	switch modal {
	case "":
		// reloaded above
	case "add":
		page.OpenAdd()
	case "edit":
		if err := page.OpenEdit(id); err != nil {
			status = http.StatusNotFound
		}
	case "view":
		if err := page.OpenView(id); err != nil {
			status = http.StatusNotFound
		}
	case "close":
		page.Close()
	default:
		status = http.StatusBadRequest
	}

	h.renderClients(w, r, page, status, nil)
}

// HandleClientSubmit handles POST /clients from the add/edit form.
func (h *PagesHandler) HandleClientSubmit(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	page := h.Pages.ClientPage(ctx, owner)

	// The form names its target, so a submit still lands if the session was
	// swept or the modal was closed in another tab.
	id := r.PostForm.Get("id")
	modal := page.State().Modal
	switch {
	case id != "" && (modal.Kind != controller.ModalEditing || modal.TargetID != id):
		if err := page.OpenEdit(id); err != nil {
			page.Refresh(ctx)
			if err := page.OpenEdit(id); err != nil {
				h.renderClients(w, r, page, http.StatusNotFound, nil)
				return
			}
		}
	case id == "" && modal.Kind != controller.ModalAdding:
		page.OpenAdd()
	}

	draft := domain.ClientDraft{
		Name:  r.PostForm.Get("name"),
		Email: r.PostForm.Get("email"),
		Phone: r.PostForm.Get("phone"),
	}
	if err := page.Submit(ctx, draft); err != nil {
		h.renderClients(w, r, page, http.StatusUnprocessableEntity, nil)
		return
	}
	http.Redirect(w, r, "/clients", http.StatusSeeOther)
}

// HandleClientDelete handles POST /clients/{id}/delete. Without confirm=yes
// the page is shown again with a confirmation prompt.
func (h *PagesHandler) HandleClientDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	page := h.Pages.ClientPage(ctx, owner)
	id := r.PathValue("id")

	confirm, prompt := formConfirmer(r)
	err := page.Delete(ctx, id, confirm)
	switch {
	case errors.Is(err, controller.ErrNotConfirmed):
		h.renderClients(w, r, page, http.StatusOK, &view.ConfirmPrompt{
			Message: *prompt,
			Action:  "/clients/" + id + "/delete",
			Cancel:  "/clients",
		})
	case err != nil:
		h.renderClients(w, r, page, http.StatusUnprocessableEntity, nil)
	default:
		http.Redirect(w, r, "/clients", http.StatusSeeOther)
	}
}

// HandleClientApproval handles POST /clients/{id}/approval.
func (h *PagesHandler) HandleClientApproval(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	page := h.Pages.ClientPage(ctx, owner)

	status, err := domain.ParseApprovalStatus(r.PostForm.Get("status"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := page.SetApproval(ctx, r.PathValue("id"), status); err != nil {
		h.renderClients(w, r, page, http.StatusUnprocessableEntity, nil)
		return
	}
	http.Redirect(w, r, "/clients?modal=view&id="+r.PathValue("id"), http.StatusSeeOther)
}

// HandleTasks handles GET /tasks.
func (h *PagesHandler) HandleTasks(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	query := r.URL.Query()
	modal := query.Get("modal")
	var page *controller.TaskPage
	if modal == "" {
		page = h.Pages.ReloadTaskPage(ctx, owner)
	} else {
		page = h.Pages.TaskPage(ctx, owner)
	}

	status := http.StatusOK
	switch modal {
	case "":
		// reloaded above
	case "add":
		page.OpenAdd()
	case "edit":
		if err := page.OpenEdit(query.Get("id")); err != nil {
			status = http.StatusNotFound
		}
	case "close":
		page.Close()
	default:
		status = http.StatusBadRequest
	}

	h.renderTasks(w, r, page, status, nil)
}

// HandleTaskSubmit handles POST /tasks from the add/edit form.
func (h *PagesHandler) HandleTaskSubmit(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	page := h.Pages.TaskPage(ctx, owner)

	id := r.PostForm.Get("id")
	modal := page.State().Modal
	switch {
	case id != "" && (modal.Kind != controller.ModalEditing || modal.TargetID != id):
		if err := page.OpenEdit(id); err != nil {
			page.Refresh(ctx)
			if err := page.OpenEdit(id); err != nil {
				h.renderTasks(w, r, page, http.StatusNotFound, nil)
				return
			}
		}
	case id == "" && modal.Kind != controller.ModalAdding:
		page.OpenAdd()
	}

	draft, err := taskDraftFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if err := page.Submit(ctx, draft); err != nil {
		h.renderTasks(w, r, page, http.StatusUnprocessableEntity, nil)
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// HandleTaskStatus handles POST /tasks/{id}/status, the inline column control.
func (h *PagesHandler) HandleTaskStatus(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	page := h.Pages.TaskPage(ctx, owner)

	if err := page.SetStatus(ctx, r.PathValue("id"), domain.TaskStatus(r.PostForm.Get("status"))); err != nil {
		h.renderTasks(w, r, page, http.StatusUnprocessableEntity, nil)
		return
	}
	http.Redirect(w, r, "/tasks", http.StatusSeeOther)
}

// HandleTaskDelete handles POST /tasks/{id}/delete.
func (h *PagesHandler) HandleTaskDelete(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerFrom(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}
	ctx := r.Context()
	page := h.Pages.TaskPage(ctx, owner)
	id := r.PathValue("id")

	confirm, prompt := formConfirmer(r)
	err := page.Delete(ctx, id, confirm)
	switch {
	case errors.Is(err, controller.ErrNotConfirmed):
		h.renderTasks(w, r, page, http.StatusOK, &view.ConfirmPrompt{
			Message: *prompt,
			Action:  "/tasks/" + id + "/delete",
			Cancel:  "/tasks",
		})
	case err != nil:
		h.renderTasks(w, r, page, http.StatusUnprocessableEntity, nil)
	default:
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)
	}
}

func (h *PagesHandler) renderClients(w http.ResponseWriter, r *http.Request, page *controller.ClientPage, status int, confirm *view.ConfirmPrompt) {
	data := view.ClientPageData{
		State:   page.State(),
		Notices: page.TakeNotices(),
		Confirm: confirm,
	}
	var buf bytes.Buffer
	if err := h.Renderer.ClientPage(&buf, data); err != nil {
		slogx.FromContext(r.Context()).Error("render clients page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func (h *PagesHandler) renderTasks(w http.ResponseWriter, r *http.Request, page *controller.TaskPage, status int, confirm *view.ConfirmPrompt) {
	data := view.TaskPageData{
		State:   page.State(),
		Notices: page.TakeNotices(),
		Confirm: confirm,
	}
	var buf bytes.Buffer
	if err := h.Renderer.TaskPage(&buf, data); err != nil {
		slogx.FromContext(r.Context()).Error("render tasks page", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	writeHTML(w, status, buf.Bytes())
}

func writeHTML(w http.ResponseWriter, status int, body []byte) {
	httpx.NoCache(w)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// formConfirmer answers a delete prompt from the posted confirm field and
// records the prompt text for re-display.
func formConfirmer(r *http.Request) (controller.Confirmer, *string) {
	prompt := new(string)
	confirm := controller.ConfirmFunc(func(msg string) bool {
		*prompt = msg
		return r.PostForm.Get("confirm") == "yes"
	})
	return confirm, prompt
}

func taskDraftFromForm(r *http.Request) (domain.TaskDraft, error) {
	draft := domain.TaskDraft{
		Title:       r.PostForm.Get("title"),
		Description: r.PostForm.Get("description"),
		Status:      domain.TaskStatus(r.PostForm.Get("status")),
		Priority:    domain.Priority(r.PostForm.Get("priority")),
	}
	if due := strings.TrimSpace(r.PostForm.Get("due_at")); due != "" {
		t, err := time.ParseInLocation(view.InputTimeLayout, due, time.UTC)
		if err != nil {
			return domain.TaskDraft{}, errors.New("due_at must be YYYY-MM-DDTHH:MM")
		}
		draft.DueAt = &t
	}
	return draft, nil
}
