package render

import "errors"

var (
	// ErrIterationLimit indicates an iteration count above Options.MaxIterations.
	ErrIterationLimit = errors.New("render: iteration count above configured ceiling")

	// ErrInvalidOptions indicates a non-positive canvas size.
	ErrInvalidOptions = errors.New("render: invalid options")
)
