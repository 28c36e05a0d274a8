package models

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a missing order, item, staff or table record.
var ErrNotFound = errors.New("not found")

// ErrOrderNotOpen signals a mutation attempted on a terminal order session.
var ErrOrderNotOpen = errors.New("order is not in opening status")

// ValidationError reports malformed input on a single field.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// InvalidTransitionError reports an illegal status change, naming the
// offending from/to states.
type InvalidTransitionError struct {
	From string
	To   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// ForbiddenError reports a status change the caller's role is not
// authorized to perform.
type ForbiddenError struct {
	Role   StaffRole
	Status OrderItemStatus
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("role %q may not set item status %q", e.Role, e.Status)
}
