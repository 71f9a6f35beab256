package http

import (
	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
	"github.com/aussiebroadwan/ledger/pkg/ledgersdk"
)

func toClientResponse(c domain.Client) ledgersdk.ClientResponse {
	out := ledgersdk.ClientResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if c.Onboarding != nil {
		out.Onboarding = &ledgersdk.OnboardingInfo{
			SelfOnboarded:  c.Onboarding.SelfOnboarded,
			OnboardedAt:    c.Onboarding.OnboardedAt,
			ApprovalStatus: string(c.Onboarding.Status),
		}
	}
	return out
}

func toClientResponses(clients []domain.Client) []ledgersdk.ClientResponse {
	out := make([]ledgersdk.ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, toClientResponse(c))
	}
	return out
}

func toTaskResponse(t domain.Task) ledgersdk.TaskResponse {
	return ledgersdk.TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueAt:       t.DueAt,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func toTaskResponses(tasks []domain.Task) []ledgersdk.TaskResponse {
	out := make([]ledgersdk.TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, toTaskResponse(t))
	}
	return out
}

func toBoardResponse(b domain.Board) ledgersdk.BoardResponse {
	return ledgersdk.BoardResponse{
		Todo:       toTaskResponses(b.Todo),
		InProgress: toTaskResponses(b.InProgress),
		Completed:  toTaskResponses(b.Completed),
	}
}

func clientDraft(req ledgersdk.ClientRequest) domain.ClientDraft {
	return domain.ClientDraft{Name: req.Name, Email: req.Email, Phone: req.Phone}
}

func taskDraft(req ledgersdk.TaskRequest) domain.TaskDraft {
	return domain.TaskDraft{
		Title:       req.Title,
		Description: req.Description,
		Status:      domain.TaskStatus(req.Status),
		Priority:    domain.Priority(req.Priority),
		DueAt:       req.DueAt,
	}
}
