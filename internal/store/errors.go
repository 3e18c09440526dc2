package store

import (
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

// ConstraintViolation wraps a unique-key collision in the documents table.
type ConstraintViolation struct {
	Err error
}

func (e *ConstraintViolation) Error() string {
	return fmt.Sprintf("constraint violation: %v", e.Err)
}

func (e *ConstraintViolation) Unwrap() error { return e.Err }

// DatabaseError wraps any other sqlite failure encountered while serving a
// StorageCommand.
type DatabaseError struct {
	Err error
}

func (e *DatabaseError) Error() string {
	return fmt.Sprintf("database error: %v", e.Err)
}

func (e *DatabaseError) Unwrap() error { return e.Err }

// ContainerError wraps a failure to insert or resolve a container row.
type ContainerError struct {
	Err error
}

func (e *ContainerError) Error() string {
	return fmt.Sprintf("container error: %v", e.Err)
}

func (e *ContainerError) Unwrap() error { return e.Err }

// InitializationError wraps a failure to open the database or apply its
// pragmas/schema at startup. The only fatal error class: the caller must
// not spawn the storage worker when this is returned.
type InitializationError struct {
	Err error
}

func (e *InitializationError) Error() string {
	return fmt.Sprintf("storage initialization failed: %v", e.Err)
}

func (e *InitializationError) Unwrap() error { return e.Err }

// classifyWriteError turns a raw sqlite error into ConstraintViolation or
// DatabaseError depending on whether it is a unique-constraint failure.
func classifyWriteError(err error) error {
	if err == nil {
		return nil
	}
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return &ConstraintViolation{Err: err}
	}
	return &DatabaseError{Err: err}
}
