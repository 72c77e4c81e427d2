package study

import (
	"errors"
	"fmt"
)

// ErrNotFound covers both missing rows and rows owned by another user;
// handlers must not distinguish the two to the caller.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when a row is known to exist under a different
// owner. Mapped to the same generic response as ErrNotFound.
var ErrForbidden = errors.New("forbidden")

// ValidationError marks malformed input the caller can fix and retry.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// QuotaError carries the plan limit and the current count so the caller
// can render an upgrade prompt.
type QuotaError struct {
	Resource string // "subjects" or "cards"
	Limit    int
	Count    int64
}

func (e *QuotaError) Error() string {
	return fmt.Sprintf("%s quota exceeded: %d of %d used", e.Resource, e.Count, e.Limit)
}

// UpstreamError wraps a persistence failure. Handlers map it to a generic
// bad-gateway response; no automatic retry.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string { return fmt.Sprintf("%s: %v", e.Op, e.Err) }
func (e *UpstreamError) Unwrap() error { return e.Err }
