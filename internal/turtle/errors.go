package turtle

import (
	"errors"
	"fmt"
)

// ErrStackUnderflow indicates a pop symbol with no saved state, which means
// the grammar's push and pop symbols are unbalanced.
var ErrStackUnderflow = errors.New("turtle: pop on empty branch stack")

// Error locates an interpreter failure in the program.
type Error struct {
	Index  int
	Symbol byte
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("symbol %q at %d: %v", e.Symbol, e.Index, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
