// SPDX-License-Identifier: MIT

package shooting

// Test bridge: exposes the pure classifier and the bracket arithmetic to
// shooting_test without widening the public API.

// Limits mirrors the private limits for tests.
type Limits struct {
	Workers float64
	Firms   float64
	Tol     float64
	Sign    float64
}

func (l Limits) private() limits {
	return limits{workers: l.Workers, firms: l.Firms, tol: l.Tol, sign: l.Sign}
}

func ClassifyNegative_TestOnly(s State, l Limits) Outcome { return classifyNegative(s, l.private()) }

func ClassifyPositive_TestOnly(s State, l Limits) Outcome { return classifyPositive(s, l.private()) }

func ExhaustedWorkers_TestOnly(s State, l Limits) bool { return exhaustedWorkers(s, l.private()) }

func GuessUpperTooLow_TestOnly(theta, ceiling, tol float64) bool {
	return guessUpperTooLow(theta, ceiling, tol)
}

func Narrow_TestOnly(b Bracket, v Verdict) (Bracket, error) { return b.narrow(v) }
