package blog

import "fmt"

// ValidationError reports malformed input. Position is the 1-based position of
// the offending content block, or 0 when the error is not block-scoped.
type ValidationError struct {
	Position int
	Field    string
	Message  string
}

func (e *ValidationError) Error() string {
	if e.Position > 0 {
		return fmt.Sprintf("block %d: %s", e.Position, e.Message)
	}
	return e.Message
}

// NotFoundError reports a missing post, tag, or slug.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}

// ConflictError reports a uniqueness violation, such as a duplicate post
// title or slug.
type ConflictError struct {
	Resource string
	Field    string
	Value    string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s with %s %q already exists", e.Resource, e.Field, e.Value)
}

// StorageError wraps a transaction or connection failure from the
// persistence layer.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return e.Op + ": " + e.Err.Error()
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
