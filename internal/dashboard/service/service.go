// Package service implements the owner-scoped client and task operations
// on top of store.Store.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrMissingField is returned when a required form field is empty. The
// wrapped message lists the missing fields.
var ErrMissingField = errors.New("missing required field")

func missingFields(fields []string) error {
	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(fields, ", "))
}

type clock func() time.Time

func (c clock) now() time.Time {
	if c == nil {
		return time.Now().UTC()
	}
	return c().UTC()
}
