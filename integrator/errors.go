// SPDX-License-Identifier: MIT

package integrator

import "errors"

var (
	// ErrUnknownMethod is returned by SetIntegrator for an unregistered name.
	ErrUnknownMethod = errors.New("integrator: unknown method")

	// ErrUnknownOption is returned by OptionsFromMap for an unrecognised key.
	ErrUnknownOption = errors.New("integrator: unknown option")

	// ErrInvalidOption is returned by OptionsFromMap for an out-of-range value.
	ErrInvalidOption = errors.New("integrator: invalid option value")

	// ErrNotInitialized is returned by Integrate before SetInitialValue.
	ErrNotInitialized = errors.New("integrator: initial value not set")

	// ErrTooManySteps is returned when one Integrate call needs more than nsteps steps.
	ErrTooManySteps = errors.New("integrator: too many steps")

	// ErrStepTooSmall is returned when the adaptive step underflows.
	ErrStepTooSmall = errors.New("integrator: step size too small")

	// ErrNonFinite is returned when the state or the error estimate becomes NaN or Inf.
	ErrNonFinite = errors.New("integrator: non-finite state")

	// ErrSingularJacobian is returned by ros2 when I - γhJ cannot be factorized.
	ErrSingularJacobian = errors.New("integrator: singular iteration matrix")

	// ErrDimension is returned when the Jacobian does not match the state size.
	ErrDimension = errors.New("integrator: dimension mismatch")

	// ErrNoJacobian is returned by ros2 when the Integrator has no Jacobian.
	ErrNoJacobian = errors.New("integrator: method needs a Jacobian")
)
