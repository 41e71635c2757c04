// SPDX-License-Identifier: MIT

package shooting

import (
	"errors"
	"fmt"
)

var (
	// ErrGuessUpperTooLow means the initial firm size converged to the ceiling
	// given to Solve; the caller must raise it and solve again.
	ErrGuessUpperTooLow = errors.New("shooting: initial guess for upper bound on firm size is too low")

	// ErrIntegratorFailure means the ODE stepper reported an unsuccessful step.
	ErrIntegratorFailure = errors.New("shooting: integrator failure")

	// ErrNoConvergence means the bisection budget was used up.
	ErrNoConvergence = errors.New("shooting: no convergence within the bisection budget")

	// ErrBracketCollapsed means the bracket midpoint equals one of its bounds.
	ErrBracketCollapsed = errors.New("shooting: bisection bracket collapsed")

	// ErrInvalidGuess is returned for a ceiling that is not finite and positive.
	ErrInvalidGuess = errors.New("shooting: guess for upper bound on firm size must be finite and > 0")

	// ErrNilModel is returned by New and SetModel for a nil model.
	ErrNilModel = errors.New("shooting: nil model")
)

// SolveError carries the state at which a solve stopped.
type SolveError struct {
	Trial   int
	X       float64
	V       [2]float64
	Bracket Bracket
	Err     error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("shooting: trial %d stopped at x=%g (mu=%g, theta=%g), bracket [%g, %g]: %v",
		e.Trial, e.X, e.V[0], e.V[1], e.Bracket.Lower, e.Bracket.Upper, e.Err)
}

func (e *SolveError) Unwrap() error { return e.Err }
