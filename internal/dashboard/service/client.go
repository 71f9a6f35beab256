package service

import (
	"context"
	"errors"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/store"
	"github.com/aussiebroadwan/ledger/pkg/idx"
	"github.com/aussiebroadwan/ledger/pkg/metricsx"
	"github.com/aussiebroadwan/ledger/pkg/slogx"

	"golang.org/x/sync/errgroup"
)

var (
	ErrClientNotFound  = errors.New("client not found")
	ErrDuplicateClient = errors.New("client with the same email or phone already exists")
	ErrNotOnboarded    = errors.New("client did not self-onboard")
	ErrMissingOwner    = errors.New("missing owner")
)

// DuplicateError names the field that collided with another client of the
// same owner. It matches ErrDuplicateClient with errors.Is.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	if e.Field == "" {
		return ErrDuplicateClient.Error()
	}
	return "a client with this " + e.Field + " already exists"
}

func (e *DuplicateError) Is(target error) bool { return target == ErrDuplicateClient }

type ClientService struct {
	Store   store.Store
	Metrics *metricsx.Metrics

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *ClientService) now() time.Time { return clock(s.Now).now() }

// List returns the owner's clients in store order.
func (s *ClientService) List(ctx context.Context, ownerID string) ([]domain.Client, error) {
	clients, err := s.Store.Clients().ListClientsByOwner(ctx, ownerID)
	if err != nil {
		slogx.FromContext(ctx).Error("failed to list clients", "error", err)
		return nil, err
	}
	return clients, nil
}

func (s *ClientService) Get(ctx context.Context, ownerID, id string) (domain.Client, error) {
	c, err := s.Store.Clients().GetClient(ctx, ownerID, id)
	if err != nil {
		return domain.Client{}, mapClientErr(err)
	}
	return c, nil
}

// Add creates a client after checking the owner has no other client with
// the same email or phone.
func (s *ClientService) Add(ctx context.Context, ownerID string, draft domain.ClientDraft) (domain.Client, error) {
	return s.create(ctx, ownerID, draft, nil)
}

// Onboard creates a client through the owner's public onboarding link. The
// client starts out pending approval.
func (s *ClientService) Onboard(ctx context.Context, ownerID string, draft domain.ClientDraft) (domain.Client, error) {
	return s.create(ctx, ownerID, draft, &domain.Onboarding{
		SelfOnboarded: true,
		OnboardedAt:   s.now(),
		Status:        domain.ApprovalPending,
	})
}

func (s *ClientService) create(ctx context.Context, ownerID string, draft domain.ClientDraft, onboarding *domain.Onboarding) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	if ownerID == "" {
		return domain.Client{}, ErrMissingOwner
	}

	draft = draft.Normalize()
	if missing := draft.Missing(); len(missing) > 0 {
		return domain.Client{}, missingFields(missing)
	}

	if err := s.checkDuplicates(ctx, s.Store, ownerID, "", draft); err != nil {
		return domain.Client{}, err
	}

	now := s.now()
	c := domain.Client{
		ID:         idx.New().String(),
		OwnerID:    ownerID,
		Name:       draft.Name,
		Email:      draft.Email,
		Phone:      draft.Phone,
		Onboarding: onboarding,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Store.Clients().CreateClient(ctx, c); err != nil {
		err = s.mapWriteErr(err)
		l.Error("failed to create client", "error", err)
		return domain.Client{}, err
	}

	l.Info("client created", "client_id", c.ID, "self_onboarded", onboarding != nil)
	return c, nil
}

// Edit replaces name, email and phone of an existing client. The record's
// own email and phone never count as duplicates. Onboarding metadata is kept.
func (s *ClientService) Edit(ctx context.Context, ownerID, id string, draft domain.ClientDraft) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	draft = draft.Normalize()
	if missing := draft.Missing(); len(missing) > 0 {
		return domain.Client{}, missingFields(missing)
	}

	existing, err := s.Store.Clients().GetClient(ctx, ownerID, id)
	if err != nil {
		return domain.Client{}, mapClientErr(err)
	}

	if err := s.checkDuplicates(ctx, s.Store, ownerID, id, draft); err != nil {
		return domain.Client{}, err
	}

	existing.Name = draft.Name
	existing.Email = draft.Email
	existing.Phone = draft.Phone
	existing.UpdatedAt = s.now()

	if err := s.Store.Clients().ReplaceClient(ctx, existing); err != nil {
		err = s.mapWriteErr(err)
		l.Error("failed to replace client", "error", err, "client_id", id)
		return domain.Client{}, err
	}

	l.Info("client updated", "client_id", id)
	return existing, nil
}

func (s *ClientService) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.Store.Clients().DeleteClient(ctx, ownerID, id); err != nil {
		err = mapClientErr(err)
		if !errors.Is(err, ErrClientNotFound) {
			slogx.FromContext(ctx).Error("failed to delete client", "error", err, "client_id", id)
		}
		return err
	}
	slogx.FromContext(ctx).Info("client deleted", "client_id", id)
	return nil
}

// SetApproval records the owner's decision on a self-onboarded client.
func (s *ClientService) SetApproval(ctx context.Context, ownerID, id string, status domain.ApprovalStatus) (domain.Client, error) {
	l := slogx.FromContext(ctx)

	var updated domain.Client
	err := s.Store.WithTx(ctx, func(tx store.Store) error {
		c, err := tx.Clients().GetClient(ctx, ownerID, id)
		if err != nil {
			return mapClientErr(err)
		}
		if c.Onboarding == nil || !c.Onboarding.SelfOnboarded {
			return ErrNotOnboarded
		}
		if err := tx.Clients().UpdateClientApproval(ctx, ownerID, id, status); err != nil {
			return mapClientErr(err)
		}
		c.Onboarding.Status = status
		updated = c
		return nil
	})
	if err != nil {
		return domain.Client{}, err
	}

	l.Info("client approval updated", "client_id", id, "status", status)
	return updated, nil
}

// checkDuplicates runs the email and phone lookups concurrently. Matches on
// excludeID are ignored so a record never conflicts with itself.
func (s *ClientService) checkDuplicates(ctx context.Context, st store.Store, ownerID, excludeID string, draft domain.ClientDraft) error {
	var emailHit, phoneHit bool

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		matches, err := st.Clients().FindClientsByEmail(gctx, ownerID, draft.Email)
		if err != nil {
			return err
		}
		emailHit = conflicts(matches, excludeID)
		return nil
	})
	g.Go(func() error {
		matches, err := st.Clients().FindClientsByPhone(gctx, ownerID, draft.Phone)
		if err != nil {
			return err
		}
		phoneHit = conflicts(matches, excludeID)
		return nil
	})
	if err := g.Wait(); err != nil {
		slogx.FromContext(ctx).Error("duplicate check failed", "error", err)
		return err
	}

	switch {
	case emailHit:
		return s.duplicate("email")
	case phoneHit:
		return s.duplicate("phone")
	}
	return nil
}

func (s *ClientService) duplicate(field string) error {
	s.Metrics.DuplicateRejected(field)
	return &DuplicateError{Field: field}
}

func (s *ClientService) mapWriteErr(err error) error {
	var ce *store.ConflictError
	if errors.As(err, &ce) {
		return s.duplicate(ce.Field)
	}
	return mapClientErr(err)
}

func conflicts(matches []domain.Client, excludeID string) bool {
	for _, m := range matches {
		if m.ID != excludeID {
			return true
		}
	}
	return false
}

func mapClientErr(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return ErrClientNotFound
	case errors.Is(err, store.ErrAlreadyExists):
		return ErrDuplicateClient
	default:
		return err
	}
}
