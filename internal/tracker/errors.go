package tracker

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField   = errors.New("missing required field")
	ErrAlreadyRunning = errors.New("a task is already in progress")
	ErrNotRunning     = errors.New("no task is currently running")
	ErrRecordNotFound = errors.New("task record not found")
	ErrNothingToClear = errors.New("no tasks to clear")
)

// FieldError names the empty field behind ErrMissingField
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("please enter %s", e.Field)
}

func (e *FieldError) Unwrap() error { return ErrMissingField }

func missing(field string) error {
	return &FieldError{Field: field}
}
