package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/service"
	"github.com/aussiebroadwan/ledger/pkg/httpx"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
	"github.com/aussiebroadwan/ledger/pkg/slogx"
)

// writeServiceError maps a service error onto the API error it surfaces as.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var dup *service.DuplicateError
	switch {
	case errors.As(err, &dup):
		apiErr := ledgersdk.ErrDuplicateClient
		if dup.Field != "" {
			apiErr = apiErr.WithField(dup.Field, "already used by another client").
				WithDescription(dup.Error())
		}
		apiErr.WriteError(w)
	case errors.Is(err, service.ErrDuplicateClient):
		ledgersdk.ErrDuplicateClient.WriteError(w)
	case errors.Is(err, service.ErrMissingField):
		ledgersdk.ErrMissingField.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrMissingOwner):
		ledgersdk.ErrInvalidRequest.WithDescription("missing owner").WriteError(w)
	case errors.Is(err, service.ErrClientNotFound), errors.Is(err, service.ErrTaskNotFound):
		ledgersdk.ErrNotFound.WithDescription(err.Error()).WriteError(w)
	case errors.Is(err, service.ErrNotOnboarded):
		ledgersdk.ErrNotOnboarded.WriteError(w)
	case errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidApprovalStatus):
		ledgersdk.ErrInvalidRequest.WithDescription(err.Error()).WriteError(w)
	default:
		slogx.FromContext(r.Context()).Error("request failed", "error", err)
		ledgersdk.ErrServerError.WriteError(w)
	}
}

// ownerFrom returns the authenticated owner or writes a 401.
func ownerFrom(w http.ResponseWriter, r *http.Request) (string, bool) {
	owner, ok := httpx.UserIDFromContext(r.Context())
	if !ok {
		ledgersdk.ErrInvalidToken.WriteError(w)
		return "", false
	}
	return owner, true
}
