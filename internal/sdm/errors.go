package sdm

import (
	"errors"
	"fmt"
)

// Domain errors for microphysics operations.
var (
	// ErrNotConverged indicates the implicit condensation solver exhausted its iteration budget.
	ErrNotConverged = errors.New("sdm: newton-raphson root finding did not converge")

	// ErrSubstepTooLarge indicates a minimum sub-timestep larger than the full timestep.
	ErrSubstepTooLarge = errors.New("sdm: minimum sub-timestep exceeds timestep")

	// ErrFragmentPrecondition indicates a breakup that would not increase multiplicity.
	ErrFragmentPrecondition = errors.New("sdm: breakup must increase multiplicity")

	// ErrInvalidState indicates a thermodynamic state with non-physical values.
	ErrInvalidState = errors.New("sdm: invalid thermodynamic state")

	// ErrInvalidInterval indicates a process constructed with a zero interval.
	ErrInvalidInterval = errors.New("sdm: process interval must be positive")

	// ErrInvalidConfig indicates a run configuration that cannot be built.
	ErrInvalidConfig = errors.New("sdm: invalid configuration")

	// ErrCanceled indicates the simulation was interrupted.
	ErrCanceled = errors.New("sdm: simulation canceled by context")
)

// StepError wraps an error with the tick, gridbox and process it occurred in.
type StepError struct {
	Tick    uint64
	Gridbox int
	Process string
	Wrapped error
}

func (e *StepError) Error() string {
	if e.Process == "" {
		return fmt.Sprintf("tick %d gridbox %d: %v", e.Tick, e.Gridbox, e.Wrapped)
	}
	return fmt.Sprintf("tick %d gridbox %d %s: %v", e.Tick, e.Gridbox, e.Process, e.Wrapped)
}

func (e *StepError) Unwrap() error {
	return e.Wrapped
}
