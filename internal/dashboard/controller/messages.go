package controller

import (
	"errors"

	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/internal/dashboard/service"
)

// userMessage turns a service error into the text shown in a notice.
func userMessage(err error) string {
	var dup *service.DuplicateError
	switch {
	case errors.As(err, &dup):
		if dup.Field == "" {
			return "A client with the same email or phone already exists."
		}
		return "A client with this " + dup.Field + " already exists."
	case errors.Is(err, service.ErrMissingField):
		return "Please fill in every required field (" + err.Error() + ")."
	case errors.Is(err, service.ErrClientNotFound):
		return "That client no longer exists."
	case errors.Is(err, service.ErrTaskNotFound):
		return "That task no longer exists."
	case errors.Is(err, service.ErrNotOnboarded):
		return "Only self-onboarded clients can be approved or rejected."
	case errors.Is(err, domain.ErrInvalidPriority),
		errors.Is(err, domain.ErrInvalidTaskStatus),
		errors.Is(err, domain.ErrInvalidApprovalStatus):
		return "Invalid value: " + err.Error() + "."
	default:
		return "Something went wrong. Please try again."
	}
}
