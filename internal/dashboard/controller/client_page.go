package controller

import (
	"context"
	"slices"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/service"
	"github.com/aussiebroadwan/ledger/pkg/metricsx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// ClientBackend is what the client page needs from the service layer.
// *service.ClientService implements it.
type ClientBackend interface {
	List(ctx context.Context, ownerID string) ([]domain.Client, error)
	Add(ctx context.Context, ownerID string, draft domain.ClientDraft) (domain.Client, error)
	Edit(ctx context.Context, ownerID, id string, draft domain.ClientDraft) (domain.Client, error)
	Delete(ctx context.Context, ownerID, id string) error
	SetApproval(ctx context.Context, ownerID, id string, status domain.ApprovalStatus) (domain.Client, error)
}

var _ ClientBackend = (*service.ClientService)(nil)

// ClientState is a snapshot of a ClientPage, safe to render.
type ClientState struct {
	Clients        []domain.Client
	Modal          Modal
	Draft          domain.ClientDraft
	Selected       *domain.Client // the client behind an Editing or Viewing modal
	Loading        bool
	OnboardingLink string
}

type ClientPage struct {
	base

	owner   string
	link    string
	backend ClientBackend
	metrics *metricsx.Metrics

	clients []domain.Client
	modal   Modal
	draft   domain.ClientDraft
}

func NewClientPage(ownerID string, backend ClientBackend, onboardingBase string, metrics *metricsx.Metrics) *ClientPage {
	return &ClientPage{
		owner:   ownerID,
		link:    service.OnboardingLink(onboardingBase, ownerID),
		backend: backend,
		metrics: metrics,
	}
}

func (p *ClientPage) Owner() string { return p.owner }

// OnboardingLink is the owner's public self-onboarding URL.
func (p *ClientPage) OnboardingLink() string { return p.link }

// Mount loads the list the first time the page is shown.
func (p *ClientPage) Mount(ctx context.Context) {
	p.mu.Lock()
	mounted := p.mounted
	p.mu.Unlock()

	if !mounted {
		p.Refresh(ctx)
	}
}

// Refresh reloads the client list. On failure the previous list is kept and
// an error notice is queued. A response overtaken by a newer Refresh is
// dropped.
func (p *ClientPage) Refresh(ctx context.Context) {
	p.mu.Lock()
	gen := p.beginLoad()
	p.mu.Unlock()

	clients, err := p.backend.List(ctx, p.owner)

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.endLoad(gen) {
		p.metrics.StaleDiscarded("clients")
		slogx.FromContext(ctx).Debug("discarded stale client list", "generation", gen)
		return
	}
	if err != nil {
		p.notify(NoticeError, "Could not load clients. Showing the last known list.")
		return
	}
	p.clients = clients
}

func (p *ClientPage) OpenAdd() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.modal = Adding()
	p.draft = domain.ClientDraft{}
}

// OpenEdit opens the edit form seeded from the listed client.
func (p *ClientPage) OpenEdit(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.find(id)
	if !ok {
		return ErrUnknownID
	}
	p.modal = Editing(id)
	p.draft = c.Draft()
	return nil
}

// OpenView opens the read-only detail panel. No store call is made.
func (p *ClientPage) OpenView(id string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.find(id); !ok {
		return ErrUnknownID
	}
	p.modal = Viewing(id)
	return nil
}

func (p *ClientPage) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.modal = Closed()
	p.draft = domain.ClientDraft{}
}

// Submit sends draft to Add or Edit depending on the open modal. On failure
// the modal stays open with draft in the buffer so the user can retry.
func (p *ClientPage) Submit(ctx context.Context, draft domain.ClientDraft) error {
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
		p.draft = domain.ClientDraft{}
	}
	if modal.Kind == ModalAdding {
		p.notify(NoticeSuccess, "Client added.")
	} else {
		p.notify(NoticeSuccess, "Client updated.")
	}
	p.mu.Unlock()

	p.Refresh(ctx)
	return nil
}

// Delete removes a client once confirm agrees. Without confirmation nothing
// is sent to the store.
func (p *ClientPage) Delete(ctx context.Context, id string, confirm Confirmer) error {
	if confirm == nil || !confirm.Confirm("Delete this client? This cannot be undone.") {
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
		p.draft = domain.ClientDraft{}
	}
	p.notify(NoticeSuccess, "Client deleted.")
	p.mu.Unlock()

	p.Refresh(ctx)
	return nil
}

// SetApproval approves or rejects a self-onboarded client.
func (p *ClientPage) SetApproval(ctx context.Context, id string, status domain.ApprovalStatus) error {
	if _, err := p.backend.SetApproval(ctx, p.owner, id, status); err != nil {
		p.mu.Lock()
		p.notify(NoticeError, userMessage(err))
		p.mu.Unlock()
		return err
	}

	p.mu.Lock()
	p.notify(NoticeSuccess, "Client "+string(status)+".")
	p.mu.Unlock()

	p.Refresh(ctx)
	return nil
}

func (p *ClientPage) State() ClientState {
	p.mu.Lock()
	defer p.mu.Unlock()

	st := ClientState{
		Clients:        slices.Clone(p.clients),
		Modal:          p.modal,
		Draft:          p.draft,
		Loading:        p.loading,
		OnboardingLink: p.link,
	}
	if p.modal.Kind == ModalEditing || p.modal.Kind == ModalViewing {
		if c, ok := p.find(p.modal.TargetID); ok {
			st.Selected = &c
		}
	}
	return st
}

func (p *ClientPage) find(id string) (domain.Client, bool) {
	for _, c := range p.clients {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Client{}, false
}
