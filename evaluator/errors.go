// SPDX-License-Identifier: MIT

package evaluator

import (
	"errors"
	"fmt"
)

var (
	// ErrInfeasible is matched by every *FeasibilityError.
	ErrInfeasible = errors.New("evaluator: infeasible state")

	// ErrStateLength is returned when V does not hold exactly [mu, theta].
	ErrStateLength = errors.New("evaluator: state must have length 2")

	// ErrNilModel is returned by Compile(nil).
	ErrNilModel = errors.New("evaluator: nil model")
)

// FeasibilityError reports a wage, profit or firm size that is not strictly
// positive.
type FeasibilityError struct {
	Quantity string // "wage", "profit" or "theta"
	X        float64
	V        [2]float64
	Value    float64
}

func (e *FeasibilityError) Error() string {
	return fmt.Sprintf("evaluator: infeasible state: %s = %g <= 0 at x=%g (mu=%g, theta=%g)",
		e.Quantity, e.Value, e.X, e.V[0], e.V[1])
}

// Unwrap lets errors.Is(err, ErrInfeasible) match.
func (e *FeasibilityError) Unwrap() error { return ErrInfeasible }
