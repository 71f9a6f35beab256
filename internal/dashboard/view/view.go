// Package view renders the dashboard's HTML pages from embedded templates.
package view

import (
	"bytes"
	"embed"
	"html/template"
	"io"
	"time"

	"github.com/aussiebroadwan/ledger/internal/dashboard/controller"
	"github.com/aussiebroadwan/ledger/internal/dashboard/domain"
)

//go:embed templates/*.html
var templatesFS embed.FS

// ConfirmPrompt asks the user to confirm a destructive action by posting
// confirm=yes to Action.
type ConfirmPrompt struct {
	Message string
	Action  string
	Cancel  string
}

type ClientPageData struct {
	State   controller.ClientState
	Notices []controller.Notice
	Confirm *ConfirmPrompt
}

type TaskPageData struct {
	State      controller.TaskState
	Notices    []controller.Notice
	Confirm    *ConfirmPrompt
	Statuses   []domain.TaskStatus
	Priorities []domain.Priority
}

type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("ledger").Funcs(funcs).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

// ClientTable renders one row per client in the given order. Each row links
// to the view and edit modals and posts to the delete endpoint; no state is
// kept here.
func (r *Renderer) ClientTable(w io.Writer, clients []domain.Client) error {
	return r.render(w, "client_table", clients)
}

func (r *Renderer) ClientPage(w io.Writer, data ClientPageData) error {
	return r.render(w, "clients", data)
}

func (r *Renderer) TaskPage(w io.Writer, data TaskPageData) error {
	if data.Statuses == nil {
		data.Statuses = domain.TaskStatuses
	}
	if data.Priorities == nil {
		data.Priorities = domain.Priorities
	}
	return r.render(w, "tasks", data)
}

// render executes into a buffer first so a template error never leaves a
// half-written page on w.
func (r *Renderer) render(w io.Writer, name string, data any) error {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

var funcs = template.FuncMap{
	"approval":    approvalLabel,
	"statusLabel": statusLabel,
	"column":      func(b domain.Board, s domain.TaskStatus) []domain.Task { return b.Column(s) },
	"fmtTime": func(t time.Time) string {
		return t.UTC().Format("2 Jan 2006 15:04")
	},
	"inputTime": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.UTC().Format(InputTimeLayout)
	},
}

// InputTimeLayout is the value format of an HTML datetime-local input.
const InputTimeLayout = "2006-01-02T15:04"

func approvalLabel(c domain.Client) string {
	if c.Onboarding == nil {
		return "added"
	}
	switch c.Onboarding.Status {
	case domain.ApprovalApproved:
		return "approved"
	case domain.ApprovalRejected:
		return "rejected"
	default:
		return "pending approval"
	}
}

func statusLabel(s domain.TaskStatus) string {
	switch s {
	case domain.TaskTodo:
		return "To do"
	case domain.TaskInProgress:
		return "In progress"
	case domain.TaskCompleted:
		return "Completed"
	default:
		return string(s)
	}
}
