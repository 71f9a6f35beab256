package domain

import (
	"errors"
	"strings"
	"time"
)

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

var ErrInvalidApprovalStatus = errors.New("invalid approval status")

// ParseApprovalStatus accepts the three approval states, case-insensitively.
func ParseApprovalStatus(s string) (ApprovalStatus, error) {
	switch st := ApprovalStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return st, nil
	default:
		return "", ErrInvalidApprovalStatus
	}
}

// Onboarding is only present on clients that registered themselves through
// the owner's onboarding link.
type Onboarding struct {
	SelfOnboarded bool
	OnboardedAt   time.Time
	Status        ApprovalStatus
}

type Client struct {
	ID         string
	OwnerID    string
	Name       string
	Email      string // always lower-case
	Phone      string
	Onboarding *Onboarding // nil for clients added by the owner
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ClientDraft is the add/edit form buffer.
type ClientDraft struct {
	Name  string
	Email string
	Phone string
}

// NormalizeEmail is the canonical form emails are stored and compared in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Normalize trims every field and lower-cases the email.
func (d ClientDraft) Normalize() ClientDraft {
	return ClientDraft{
		Name:  strings.TrimSpace(d.Name),
		Email: NormalizeEmail(d.Email),
		Phone: strings.TrimSpace(d.Phone),
	}
}

// Missing lists the required fields that are empty, in form order.
func (d ClientDraft) Missing() []string {
	var missing []string
	if strings.TrimSpace(d.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(d.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(d.Phone) == "" {
		missing = append(missing, "phone")
	}
	return missing
}

// Draft returns the editable fields of c, used to seed the edit form.
func (c Client) Draft() ClientDraft {
	return ClientDraft{Name: c.Name, Email: c.Email, Phone: c.Phone}
}
