package controller

import (
	"context"
	"sync"
	"time"

	"github.com/aussiebroadwan/ledger/pkg/metricsx"
)

// Registry keeps one ClientPage and one TaskPage per owner so state such as
// the last loaded list survives between requests.
type Registry struct {
	Clients        ClientBackend
	Tasks          TaskBackend
	OnboardingBase string
	Metrics        *metricsx.Metrics

	// Now defaults to time.Now.
	Now func() time.Time

	mu          sync.Mutex
	clientPages map[string]*ClientPage
	taskPages   map[string]*TaskPage
}

func (r *Registry) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

// ClientPage returns the owner's client page, creating and mounting it on
// first use.
func (r *Registry) ClientPage(ctx context.Context, ownerID string) *ClientPage {
	p, _ := r.clientPage(ctx, ownerID)
	return p
}

// ReloadClientPage is ClientPage followed by a Refresh, except that a page
// created by this call has just loaded its list and is not listed again.
func (r *Registry) ReloadClientPage(ctx context.Context, ownerID string) *ClientPage {
	p, created := r.clientPage(ctx, ownerID)
	if !created {
		p.Refresh(ctx)
	}
	return p
}

func (r *Registry) clientPage(ctx context.Context, ownerID string) (*ClientPage, bool) {
	r.mu.Lock()
	if r.clientPages == nil {
		r.clientPages = make(map[string]*ClientPage)
	}
	p, ok := r.clientPages[ownerID]
	if !ok {
		p = NewClientPage(ownerID, r.Clients, r.OnboardingBase, r.Metrics)
		r.clientPages[ownerID] = p
		r.Metrics.SetSessions("clients", len(r.clientPages))
	}
	r.mu.Unlock()

	p.touch(r.now())
	p.Mount(ctx)
	return p, !ok
}

func (r *Registry) TaskPage(ctx context.Context, ownerID string) *TaskPage {
	p, _ := r.taskPage(ctx, ownerID)
	return p
}

// ReloadTaskPage mirrors ReloadClientPage.
func (r *Registry) ReloadTaskPage(ctx context.Context, ownerID string) *TaskPage {
	p, created := r.taskPage(ctx, ownerID)
	if !created {
		p.Refresh(ctx)
	}
	return p
}

func (r *Registry) taskPage(ctx context.Context, ownerID string) (*TaskPage, bool) {
	r.mu.Lock()
	if r.taskPages == nil {
		r.taskPages = make(map[string]*TaskPage)
	}
	p, ok := r.taskPages[ownerID]
	if !ok {
		p = NewTaskPage(ownerID, r.Tasks, r.Metrics)
		r.taskPages[ownerID] = p
		r.Metrics.SetSessions("tasks", len(r.taskPages))
	}
	r.mu.Unlock()

	p.touch(r.now())
	p.Mount(ctx)
	return p, !ok
}

// Sweep drops pages not used within idle and returns how many were removed.
func (r *Registry) Sweep(idle time.Duration) int {
	cutoff := r.now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	removed := 0
	for owner, p := range r.clientPages {
		if p.idleSince().Before(cutoff) {
			delete(r.clientPages, owner)
			removed++
		}
	}
	for owner, p := range r.taskPages {
		if p.idleSince().Before(cutoff) {
			delete(r.taskPages, owner)
			removed++
		}
	}

	r.Metrics.SetSessions("clients", len(r.clientPages))
	r.Metrics.SetSessions("tasks", len(r.taskPages))
	return removed
}

// Len returns the number of live pages of both kinds.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clientPages) + len(r.taskPages)
}
