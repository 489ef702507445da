package wire

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every geometry or lead-flag validation error.
var ErrInvalidConfig = errors.New("invalid wire configuration")

// InvalidStateError is returned when an operation needs a Building assembler
// but the assembler has already been finalized.
type InvalidStateError struct {
	Op string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("%s: system already finalized", e.Op)
}

func configErrorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
