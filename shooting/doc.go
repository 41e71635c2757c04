// SPDX-License-Identifier: MIT

// Package shooting solves the equilibrium sorting problem of a model.Model by
// forward shooting with bisection on the unobserved initial firm size.
//
// What:
//
//	The equilibrium is a pair of functions mu(x) (who matches with whom) and
//	theta(x) (firm size) over the worker domain. Both end values of mu are
//	known, theta(start) is not. The Solver guesses theta(start), integrates
//	the equilibrium ODE one knot at a time, classifies every new state and
//	narrows a bisection bracket on the guess until a trajectory meets the
//	boundary conditions.
//
// Direction:
//
//	Negative assortative matching integrates from workers.Lower up to
//	workers.Upper; positive assortative matching integrates from
//	workers.Upper down to workers.Lower. Both start at mu = firms.Upper and
//	aim at mu = firms.Lower. One driver serves both; a small direction value
//	supplies the sign, the start and end bounds and the classifier.
//
// Classification (after every step):
//
//	Negative:  workers exhausted            → guess too high
//	           firms exhausted              → guess too low
//	           workers converged and
//	             firms converged            → success (all matched)
//	             profit ≤ tol               → success (excess firms)
//	             otherwise                  → guess too high (positive profits)
//	           firms converged and
//	             wage ≤ tol                 → success (excess workers)
//	             otherwise                  → guess too low (positive wages)
//	Positive:  workers and firms converged  → success
//	           firms exhausted              → guess too low
//	           workers converged            → guess too high
//
// The classifier is pure; logging and metrics live in the driver and in the
// Observer hook.
//
// Failure (all wrapped in *SolveError with the last x, V and bracket):
//   - ErrGuessUpperTooLow: the guess converged to the caller's ceiling.
//   - ErrIntegratorFailure: the stepper failed (cause joined).
//   - evaluator.ErrInfeasible: wage, profit or firm size left the feasible
//     region. Never retried.
//   - ErrNoConvergence: more than WithMaxBisections narrowings.
//   - ErrBracketCollapsed: the bracket can no longer be halved in float64.
//
// Configuration problems (unknown method, bad guess) are returned before any
// integration and are not wrapped in SolveError.
//
// A Solver is not safe for concurrent use. Run one Solver per goroutine; the
// Model they share is immutable.
package shooting
