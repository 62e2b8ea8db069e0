package physics

import "errors"

// Domain errors for simulator construction.
var (
	// ErrInvalidParams indicates viewport or tuning values the phase rules cannot run with.
	ErrInvalidParams = errors.New("physics: invalid simulation parameters")

	// ErrInvalidBody indicates a non-positive radius or mass.
	ErrInvalidBody = errors.New("physics: invalid body")
)
