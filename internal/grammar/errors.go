package grammar

import (
	"errors"
	"fmt"
)

var (
	// ErrNegativeIterations indicates a rewrite was requested with n < 0.
	ErrNegativeIterations = errors.New("grammar: negative iteration count")

	// ErrResourceLimit indicates the expansion would exceed the symbol ceiling.
	ErrResourceLimit = errors.New("grammar: expansion exceeds symbol limit")
)

// LimitError reports the iteration at which an expansion outgrew its ceiling.
type LimitError struct {
	Iteration int
	Length    int
	Max       int
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s: iteration %d needs %d symbols (max %d)", ErrResourceLimit, e.Iteration, e.Length, e.Max)
}

func (e *LimitError) Unwrap() error {
	return ErrResourceLimit
}
