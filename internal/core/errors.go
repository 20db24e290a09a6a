package core

import "fmt"

// ValidationError reports input that violates a domain rule. It carries the
// offending field and value so callers can render a message without
// re-deriving anything.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s (%v): %s", e.Field, e.Value, e.Reason)
}

// NotFoundError reports a lookup by id or name that was required to succeed.
type NotFoundError struct {
	Kind string // "expense", "category", "alert", "account", "person"
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Kind, e.Key)
}

// StateConflictError reports an operation that is valid in isolation but
// conflicts with the current ownership or reference state, such as editing a
// shared-account expense through the personal path.
type StateConflictError struct {
	Kind   string
	Key    string
	Reason string
}

func (e *StateConflictError) Error() string {
	return fmt.Sprintf("%s %s: %s", e.Kind, e.Key, e.Reason)
}

func validationErr(field string, value any, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

func notFoundErr(kind, key string) error {
	return &NotFoundError{Kind: kind, Key: key}
}
