package engine

import (
	"errors"
	"fmt"
)

// NotFoundError reports a lookup against an unknown session or component.
type NotFoundError struct {
	Kind string // "session" or "component"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

// IsNotFound reports whether err is a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
