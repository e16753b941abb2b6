package contract

import (
	"errors"
	"strings"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrIncomplete  = errors.New("incomplete")
	ErrEmptyState  = errors.New("empty state")
	ErrPersistence = errors.New("persistence failed")
	ErrValidation  = errors.New("validation failed")
	ErrFinalized   = errors.New("already finalized")
	ErrUnknownTool = errors.New("unknown tool")
)

// IncompleteError names the required fields that are still missing.
type IncompleteError struct {
	Subject string
	Missing []string
}

func (e *IncompleteError) Error() string {
	return e.Subject + " is missing " + strings.Join(e.Missing, ", ")
}

func (e *IncompleteError) Unwrap() error {
	return ErrIncomplete
}
