// SPDX-License-Identifier: MIT

// Package evaluator compiles a model.Model into numeric functions of (x, V),
// where V = [mu, theta].
//
// Evaluators is an immutable value built once per Model. Every compiled
// function receives its arguments in the order
//
//	(x, mu, theta, p_1, ..., p_n)
//
// with the parameters sorted by name, and the parameter values are bound at
// compile time. A solver that switches to a different Model compiles a new
// Evaluators; nothing is invalidated in place.
//
// Wage, Profit and FirmSize are feasibility guards: a non-positive value is
// reported as a *FeasibilityError (errors.Is(err, ErrInfeasible)). Callers must
// treat it as fatal. It means the trajectory has left the economically
// meaningful region and retrying with another guess would only hide a broken
// model.
//
// All methods are safe for concurrent use.
package evaluator
