package db

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// Validation failures wrapped by ValidationError.
var (
	ErrRequired  = errors.New("this field is required")
	ErrTooLong   = errors.New("value is too long")
	ErrDuplicate = errors.New("already exists")
	ErrInvalid   = errors.New("invalid value")
)

// ErrNotFound is returned when the requested todo or label does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports a problem with a single user-supplied field.
type ValidationError struct {
	Field string
	Msg   string
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, err error, msg string) *ValidationError {
	return &ValidationError{Field: field, Msg: msg, Err: err}
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error

	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
}

func isForeignKeyViolation(err error) bool {
	var sqliteErr sqlite3.Error

	return errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintForeignKey
}
