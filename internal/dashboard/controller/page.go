// Package controller holds the per-owner page state behind the dashboard's
// client list and task board. A page is a small state machine: the list it
// last loaded, which modal is open, the form buffer, a loading flag and the
// notices waiting to be shown. Every refresh takes a generation number and a
// response that is no longer the newest one is dropped.
package controller

import (
	"errors"
	"sync"
	"time"
)

var (
	ErrNotConfirmed = errors.New("deletion not confirmed")
	ErrNoForm       = errors.New("no form is open")
	ErrUnknownID    = errors.New("record is not on the page")
)

type ModalKind int

const (
	ModalClosed ModalKind = iota
	ModalAdding
	ModalEditing
	ModalViewing
)

func (k ModalKind) String() string {
	switch k {
	case ModalAdding:
		return "add"
	case ModalEditing:
		return "edit"
	case ModalViewing:
		return "view"
	default:
		return "closed"
	}
}

// Modal is the single modal slot of a page. TargetID is set for Editing and
// Viewing only.
type Modal struct {
	Kind     ModalKind
	TargetID string
}

func Closed() Modal { return Modal{Kind: ModalClosed} }

func Adding() Modal { return Modal{Kind: ModalAdding} }

func Editing(id string) Modal { return Modal{Kind: ModalEditing, TargetID: id} }

func Viewing(id string) Modal { return Modal{Kind: ModalViewing, TargetID: id} }

func (m Modal) IsOpen() bool { return m.Kind != ModalClosed }

// Targets reports whether the modal is editing or viewing id.
func (m Modal) Targets(id string) bool {
	return (m.Kind == ModalEditing || m.Kind == ModalViewing) && m.TargetID == id
}

type NoticeLevel string

const (
	NoticeSuccess NoticeLevel = "success"
	NoticeError   NoticeLevel = "error"
)

type Notice struct {
	Level   NoticeLevel
	Message string
}

// Confirmer gates destructive actions.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Answer is a Confirmer that always gives the same reply, for callers that
// collected the answer before calling in.
type Answer bool

func (a Answer) Confirm(string) bool { return bool(a) }

// base carries the bookkeeping shared by both pages. Callers hold mu.
type base struct {
	mu sync.Mutex

	generation uint64
	loading    bool
	mounted    bool
	notices    []Notice
	lastUsed   time.Time
}

// beginLoad starts a refresh and returns its generation.
func (b *base) beginLoad() uint64 {
	b.generation++
	b.loading = true
	return b.generation
}

// endLoad reports whether gen is still the newest refresh, and clears the
// loading flag if so.
func (b *base) endLoad(gen uint64) bool {
	if gen != b.generation {
		return false
	}
	b.loading = false
	b.mounted = true
	return true
}

func (b *base) notify(level NoticeLevel, msg string) {
	b.notices = append(b.notices, Notice{Level: level, Message: msg})
}

// TakeNotices returns the pending notices and clears them.
func (b *base) TakeNotices() []Notice {
	b.mu.Lock()
	defer b.mu.Unlock()

	out := b.notices
	b.notices = nil
	return out
}

func (b *base) touch(now time.Time) {
	b.mu.Lock()
	b.lastUsed = now
	b.mu.Unlock()
}

func (b *base) idleSince() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastUsed
}
