// internal/naming/errors.go
package naming

import (
	"errors"
	"fmt"
)

var (
	// ErrNotStructured is returned when an operation needs the decomposed
	// form of a name but only an opaque handle is available.
	ErrNotStructured = errors.New("identity is not structured")
	// ErrInvalidSegment is returned when a name component violates the grammar.
	ErrInvalidSegment = errors.New("invalid name segment")
)

// NameCollisionError reports a live object already using a name under the
// Throw policy.
type NameCollisionError struct {
	Name string
}

func (e *NameCollisionError) Error() string {
	return fmt.Sprintf("name collision: object %q already exists", e.Name)
}
