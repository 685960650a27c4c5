package world

import (
	"errors"
	"fmt"
)

// ErrOutOfBounds is matched by every OutOfBoundsError.
var ErrOutOfBounds = errors.New("world: no chunk at coordinates")

// OutOfBoundsError reports a global access to a column with no chunk.
type OutOfBoundsError struct {
	X, Y, Z int
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("world: no chunk at (%d, %d, %d)", e.X, e.Y, e.Z)
}

func (e *OutOfBoundsError) Is(target error) bool {
	return target == ErrOutOfBounds
}
