// Package idx generates the ULID identifiers used for documents and request
// ids. ULIDs sort by creation time, which gives owner-scoped listings a
// stable creation order without an extra column.
package idx

import (
	"crypto/rand"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ID string

// Zero represents the zero value ID.
const Zero ID = ""

// ErrInvalid reports a malformed ULID string.
var ErrInvalid = errors.New("idx: invalid ulid")

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(rand.Reader, 0)
)

// New returns a new ID for the current time in UTC.
func New() ID {
	return NewAt(time.Now().UTC())
}

// NewAt generates an ID at the provided time. IDs generated within the same
// millisecond are still strictly increasing.
func NewAt(t time.Time) ID {
	mu.Lock()
	defer mu.Unlock()
	return ID(ulid.MustNew(ulid.Timestamp(t), entropy).String())
}

// Parse validates s as a ULID.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Zero, ErrInvalid
	}
	if _, err := ulid.ParseStrict(s); err != nil {
		return Zero, ErrInvalid
	}
	return ID(s), nil
}

// Valid reports whether s is a well-formed ULID.
func Valid(s string) bool {
	_, err := Parse(s)
	return err == nil
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool { return id == Zero }

// String returns the canonical string form.
func (id ID) String() string { return string(id) }

// Time extracts the embedded timestamp. Invalid IDs yield the zero time.
func (id ID) Time() time.Time {
	u, err := ulid.ParseStrict(id.String())
	if err != nil {
		return time.Time{}
	}
	return ulid.Time(u.Time()).UTC()
}

// Compare reports the lexical ordering between a and b.
func Compare(a, b ID) int {
	return strings.Compare(a.String(), b.String())
}
