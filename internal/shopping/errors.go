package shopping

import (
	"errors"
	"fmt"
)

// Business-rule rejections. These are expected outcomes surfaced to the
// user verbatim, not logged as failures.
var (
	ErrListFrozen         = errors.New("list is frozen")
	ErrNotAuthorized      = errors.New("not authorized")
	ErrAlreadyResolved    = errors.New("suggestion already resolved")
	ErrDuplicateCategory  = errors.New("category key already exists")
	ErrPersistenceTimeout = errors.New("database operation timed out")
)

// ValidationError reports malformed input, such as an empty item name.
// Recoverable; the caller should show Reason and never retry.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid input: " + e.Reason
}

// ReferenceError reports an unknown entity id. It indicates a caller
// bug: ids must be resolved before invoking the core.
type ReferenceError struct {
	Entity string
	ID     int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("unknown %s id %d", e.Entity, e.ID)
}
