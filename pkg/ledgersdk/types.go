package ledgersdk

import "time"

// ============================================================================
// Clients
// ============================================================================

// ClientRequest is the body of POST /v1/clients, PUT /v1/clients/{id} and
// POST /onboard/{owner}.
type ClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// OnboardingInfo is present on clients that registered themselves.
type OnboardingInfo struct {
	SelfOnboarded  bool      `json:"self_onboarded"`
	OnboardedAt    time.Time `json:"onboarded_at"`
	ApprovalStatus string    `json:"approval_status"`
}

type ClientResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Email      string          `json:"email"`
	Phone      string          `json:"phone"`
	Onboarding *OnboardingInfo `json:"onboarding,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ListClientsResponse struct {
	Clients []ClientResponse `json:"clients"`
}

// ApprovalRequest is the body of POST /v1/clients/{id}/approval.
type ApprovalRequest struct {
	Status string `json:"status" example:"approved"`
}

// OnboardingLinkResponse is returned by GET /v1/onboarding-link.
type OnboardingLinkResponse struct {
	Link string `json:"link"`
}

// OnboardResponse is returned to a client that registered through an
// onboarding link. It deliberately carries no owner data.
type OnboardResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

// ============================================================================
// Tasks
// ============================================================================

// TaskRequest is the body of POST /v1/tasks and PUT /v1/tasks/{id}. Status
// is ignored on create: new tasks always start as todo.
type TaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status,omitempty" example:"todo"`
	Priority    string     `json:"priority,omitempty" example:"medium"`
	DueAt       *time.Time `json:"due_at,omitempty"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueAt       *time.Time `json:"due_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty"`
}

// BoardResponse is the task list split by status, order preserved.
type BoardResponse struct {
	Todo       []TaskResponse `json:"todo"`
	InProgress []TaskResponse `json:"in_progress"`
	Completed  []TaskResponse `json:"completed"`
}

type ListTasksResponse struct {
	Tasks []TaskResponse `json:"tasks"`
	Board BoardResponse  `json:"board"`
}

// StatusRequest is the body of PATCH /v1/tasks/{id}/status.
type StatusRequest struct {
	Status string `json:"status" example:"in-progress"`
}

// ============================================================================
// Health
// ============================================================================

type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

type HealthChecks struct {
	Database string `json:"database"`
	Keys     string `json:"keys"`
}
