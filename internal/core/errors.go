package core

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when an update or delete references a missing id.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateCategory is returned when a (name, kind) pair already exists.
	ErrDuplicateCategory = errors.New("category already exists")
	// ErrValidation matches every FieldError.
	ErrValidation = errors.New("validation failed")
	// ErrStorageInit is fatal: the database could not be created or opened.
	ErrStorageInit = errors.New("storage initialization failed")
)

// FieldError carries the name of the offending field with the cause.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

func (e *FieldError) Is(target error) bool {
	return target == ErrValidation
}
