package controller

import (
	"context"
	"slices"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/service"
	"github.com/aussiebroadwan/ledger/pkg/metricsx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

type TaskBackend interface {
	List(ctx context.Context, ownerID string) ([]domain.Task, error)
	Add(ctx context.Context, ownerID string, draft domain.TaskDraft) (domain.Task, error)
	Edit(ctx context.Context, ownerID, id string, draft domain.TaskDraft) (domain.Task, error)
	SetStatus(ctx context.Context, ownerID, id string, status domain.TaskStatus) error
	Delete(ctx context.Context, ownerID, id string) error
}

var _ TaskBackend = (*service.TaskService)(nil)

type TaskState struct {
	Tasks    []domain.Task
	Board    domain.Board
	Modal    Modal
	Draft    domain.TaskDraft
	Selected *domain.Task
	Loading  bool
}

// TaskPage backs the three-column task board. The columns are views over
// one list, never separate queries.
type TaskPage struct {
	base

	owner   string
	backend TaskBackend
	metrics *metricsx.Metrics

	tasks []domain.Task
	modal Modal
	draft domain.TaskDraft
}

func NewTaskPage(ownerID string, backend TaskBackend, metrics *metricsx.Metrics) *TaskPage {
	return &TaskPage{owner: ownerID, backend: backend, metrics: metrics}
}

func (p *TaskPage) Owner() string { return p.owner }

func (p *TaskPage) Mount(ctx context.Context) {
	p.mu.Lock()
	mounted := p.mounted
	p.mu.Unlock()

	if !mounted {
		p.Refresh(ctx)
	}
}

func (p *TaskPage) Refresh(ctx context.Context) {
	p.mu.Lock()
	gen := p.beginLoad()
	p.mu.Unlock()

	tasks, err := p.backend.List(ctx, p.owner)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.endLoad(gen) {
		p.metrics.StaleDiscarded("tasks")
		slogx.FromContext(ctx).Debug("discarded stale task list", "generation", gen)
		return
	}
	if err != nil {
		p.notify(NoticeError, "Could not load tasks. Showing the last known board.")
		return
	}
	p.tasks = tasks
}

func (p *TaskPage) OpenAdd() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.modal = Adding()
	p.draft = domain.TaskDraft{Status: domain.TaskTodo, Priority: domain.PriorityMedium}
}

func (p *TaskPage) OpenEdit(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	t, ok := p.find(id)
	if !ok {
		return ErrUnknownID
	}
	p.modal = Editing(id)
	p.draft = t.Draft()
	return nil
}

func (p *TaskPage) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.modal = Closed()
	p.draft = domain.TaskDraft{}
}

// Submit is the shared add/edit handler: with an edit target set it replaces
// the whole task with draft, otherwise it creates a new todo task.
func (p *TaskPage) Submit(ctx context.Context, draft domain.TaskDraft) error {
	p.mu.Lock()
	modal := p.modal
	p.draft = draft
	p.mu.Unlock()

	var err error
	switch modal.Kind {
	case ModalAdding:
		_, err = p.backend.Add(ctx, p.owner, draft)
	case ModalEditing:
		_, err = p.backend.Edit(ctx, p.owner, modal.TargetID, draft)
	default:
		return ErrNoForm
	}

	p.mu.Lock()
	if err != nil {
		p.notify(NoticeError, userMessage(err))
		p.mu.Unlock()
		return err
	}
	if p.modal == modal {
		p.modal = Closed()
		p.draft = domain.TaskDraft{}
	}
	if modal.Kind == ModalAdding {
		p.notify(NoticeSuccess, "Task added.")
	} else {
		p.notify(NoticeSuccess, "Task updated.")
	}
	p.mu.Unlock()

	p.Refresh(ctx)
	return nil
}

// SetStatus is the inline column control. It never touches the form.
func (p *TaskPage) SetStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	if err := p.backend.SetStatus(ctx, p.owner, id, status); err != nil {
		p.mu.Lock()
		p.notify(NoticeError, userMessage(err))
		p.mu.Unlock()
		return err
	}
	p.Refresh(ctx)
	return nil
}

func (p *TaskPage) Delete(ctx context.Context, id string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm("Delete this task? This cannot be undone.") {
		return ErrNotConfirmed
	}

	if err := p.backend.Delete(ctx, p.owner, id); err != nil {
		p.mu.Lock()
		p.notify(NoticeError, userMessage(err))
		p.mu.Unlock()
		return err
	}

	p.mu.Lock()
	if p.modal.Targets(id) {
		p.modal = Closed()
		p.draft = domain.TaskDraft{}
	}
	p.notify(NoticeSuccess, "Task deleted.")
	p.mu.Unlock()

	p.Refresh(ctx)
	return nil
}

func (p *TaskPage) State() TaskState {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := TaskState{
		Tasks:   slices.Clone(p.tasks),
		Board:   domain.Partition(p.tasks),
		Modal:   p.modal,
		Draft:   p.draft,
		Loading: p.loading,
	}
	if p.modal.Kind == ModalEditing {
		if t, ok := p.find(p.modal.TargetID); ok {
			st.Selected = &t
		}
	}
	return st
}

func (p *TaskPage) find(id string) (domain.Task, bool) {
	for _, t := range p.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Task{}, false
}
