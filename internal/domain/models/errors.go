package models

import (
	"errors"
	"fmt"
)

// ErrorKind classifies pipeline failures.
type ErrorKind string

const (
	ErrSourceUnavailable   ErrorKind = "source_unavailable"
	ErrWarehouseConnection ErrorKind = "warehouse_connection"
	ErrComputeResume       ErrorKind = "compute_resume"
	ErrSchemaBootstrap     ErrorKind = "schema_bootstrap"
	ErrInsert              ErrorKind = "insert"
	ErrCommit              ErrorKind = "commit"
	ErrUnexpected          ErrorKind = "unexpected"
)

// ETLError is a failure of one pipeline step.
type ETLError struct {
	Kind ErrorKind
	Op   string
	Row  int // 1-indexed record for ErrInsert, 0 otherwise
	Err  error
}

func (e *ETLError) Error() string {
	if e.Row > 0 {
		return fmt.Sprintf("%s (row %d): %v", e.Op, e.Row, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

// Unwrap returns underlying error.
func (e *ETLError) Unwrap() error {
	return e.Err
}

// NewETLError creates an error of the given kind.
func NewETLError(kind ErrorKind, op string, err error) *ETLError {
	return &ETLError{Kind: kind, Op: op, Err: err}
}

// WithRow records the failing record position.
func (e *ETLError) WithRow(row int) *ETLError {
	e.Row = row
	return e
}

// KindOf returns the kind of the first ETLError in err's chain, or "" if none.
func KindOf(err error) ErrorKind {
	var e *ETLError
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
