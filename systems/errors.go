package systems

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is wrapped by every precondition failure in this package.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	ErrNilParticles        = fmt.Errorf("%w: nil particle data", ErrInvalidArgument)
	ErrLengthMismatch      = fmt.Errorf("%w: particle array length mismatch", ErrInvalidArgument)
	ErrNonPositiveDT       = fmt.Errorf("%w: time step must be positive and finite", ErrInvalidArgument)
	ErrNonPositiveSize     = fmt.Errorf("%w: particle size must be positive", ErrInvalidArgument)
	ErrNonPositiveCellSize = fmt.Errorf("%w: cell size must be positive", ErrInvalidArgument)
	ErrInvertedBounds      = fmt.Errorf("%w: min exceeds max", ErrInvalidArgument)
	ErrNoPendingStep       = fmt.Errorf("%w: commit without a successful step", ErrInvalidArgument)
	ErrStaleStep           = fmt.Errorf("%w: particles changed since the step", ErrInvalidArgument)
)

// Binning errors. These describe grids that cannot be indexed, not caller bugs.
var (
	ErrNonFiniteGrid = errors.New("grid bounds are not finite")
	ErrTooManyCells  = errors.New("grid exceeds cell limit")
)
