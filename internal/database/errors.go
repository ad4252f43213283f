package database

import (
	"errors"
	"fmt"
)

// Common database errors that can be checked using errors.Is().
var (
	ErrNotFound        = errors.New("record not found")
	ErrNotConnected    = errors.New("database not connected")
	ErrInvalidInput    = errors.New("invalid input data")
	ErrMultipleResults = errors.New("multiple results found when one was expected")
)

// DBError carries the operation and query that failed along with the
// driver error.
type DBError struct {
	err     error
	context string
	query   string
}

// NewDBError creates a DBError. context describes the operation that was
// running.
func NewDBError(err error, context string) *DBError {
	return &DBError{err: err, context: context}
}

// WithQuery adds the failing statement to the error.
func (e *DBError) WithQuery(query string) *DBError {
	e.query = query
	return e
}

func (e *DBError) Error() string {
	msg := e.context
	if e.query != "" {
		msg = fmt.Sprintf("%s\nQuery: %s", msg, e.query)
	}
	if e.err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.err)
	}
	return msg
}

// Unwrap returns the underlying error.
func (e *DBError) Unwrap() error {
	return e.err
}
