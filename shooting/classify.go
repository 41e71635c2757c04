// SPDX-License-Identifier: MIT

package shooting

import (
	"fmt"
	"math"
)

// State is one point of a trajectory as the classifier sees it.
type State struct {
	X      float64
	Mu     float64
	Theta  float64
	Wage   float64
	Profit float64
}

// Verdict is what the driver does next.
type Verdict int

const (
	Continue Verdict = iota // keep stepping
	Success                 // freeze the table
	TooHigh                 // lower the bracket's upper bound
	TooLow                  // raise the bracket's lower bound
)

func (v Verdict) String() string {
	switch v {
	case Continue:
		return "continue"
	case Success:
		return "success"
	case TooHigh:
		return "too_high"
	case TooLow:
		return "too_low"
	}
	return fmt.Sprintf("Verdict(%d)", int(v))
}

// Reason names the classification cell that fired.
type Reason int

const (
	ReasonNone Reason = iota
	ReasonAllMatched
	ReasonExcessFirms
	ReasonExcessWorkers
	ReasonWorkersExhausted
	ReasonFirmsExhausted
	ReasonFirmsExhaustedAtWorkerBound
	ReasonPositiveProfits
	ReasonPositiveWages
)

var reasonNames = [...]string{
	ReasonNone:                        "none",
	ReasonAllMatched:                  "all_matched",
	ReasonExcessFirms:                 "excess_firms",
	ReasonExcessWorkers:               "excess_workers",
	ReasonWorkersExhausted:            "workers_exhausted",
	ReasonFirmsExhausted:              "firms_exhausted",
	ReasonFirmsExhaustedAtWorkerBound: "firms_exhausted_at_worker_bound",
	ReasonPositiveProfits:             "positive_profits",
	ReasonPositiveWages:               "positive_wages",
}

// String returns a snake_case label, suitable for metrics.
func (r Reason) String() string {
	if r >= 0 && int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("Reason(%d)", int(r))
}

// Outcome is the classifier's tagged result.
type Outcome struct {
	Verdict Verdict
	Reason  Reason
}

// String renders the outcome as a sentence for logs.
func (o Outcome) String() string {
	switch o.Reason {
	case ReasonAllMatched:
		return "success: all workers and firms are matched"
	case ReasonExcessFirms:
		return "success: equilibrium with excess firms"
	case ReasonExcessWorkers:
		return "success: equilibrium with excess workers"
	case ReasonWorkersExhausted:
		return "ran out of workers: initial firm size too high"
	case ReasonFirmsExhausted:
		return "ran out of firms: initial firm size too low"
	case ReasonFirmsExhaustedAtWorkerBound:
		return "ran out of firms at the worker bound: initial firm size too low"
	case ReasonPositiveProfits:
		return "firms left with positive profits: initial firm size too high"
	case ReasonPositiveWages:
		return "workers left with positive wages: initial firm size too low"
	}
	return o.Verdict.String()
}

// limits are the terminal conditions of one direction.
type limits struct {
	workers float64 // worker bound the trajectory must reach
	firms   float64 // firms.Lower
	tol     float64
	sign    float64 // +1 when x increases
}

func convergedWorkers(s State, l limits) bool { return math.Abs(s.X-l.workers) <= l.tol }

func convergedFirms(s State, l limits) bool { return math.Abs(s.Mu-l.firms) <= l.tol }

// exhaustedWorkers reports an overshoot of the worker bound in the direction
// of travel. The margin is strict, so a state at exactly tol is converged.
func exhaustedWorkers(s State, l limits) bool {
	if l.sign < 0 {
		return s.X-l.workers < -l.tol
	}
	return s.X-l.workers > l.tol
}

func exhaustedFirms(s State, l limits) bool { return s.Mu-l.firms < -l.tol }

// almostZero treats a wage or profit at or below tol as fully allocated.
func almostZero(v, tol float64) bool { return v <= tol }

func guessUpperTooLow(theta, ceiling, tol float64) bool { return math.Abs(theta-ceiling) <= tol }

// classifyNegative handles integration from workers.Lower upwards.
// Exhaustion is tested first, so within the converged branches the opposite
// side is known not to be exhausted.
func classifyNegative(s State, l limits) Outcome {
	switch {
	case exhaustedWorkers(s, l):
		return Outcome{TooHigh, ReasonWorkersExhausted}
	case exhaustedFirms(s, l):
		return Outcome{TooLow, ReasonFirmsExhausted}
	case convergedWorkers(s, l):
		switch {
		case convergedFirms(s, l):
			return Outcome{Success, ReasonAllMatched}
		case almostZero(s.Profit, l.tol):
			return Outcome{Success, ReasonExcessFirms}
		default:
			return Outcome{TooHigh, ReasonPositiveProfits}
		}
	case convergedFirms(s, l):
		if almostZero(s.Wage, l.tol) {
			return Outcome{Success, ReasonExcessWorkers}
		}
		return Outcome{TooLow, ReasonPositiveWages}
	}
	return Outcome{Continue, ReasonNone}
}

// classifyPositive handles integration from workers.Upper downwards.
func classifyPositive(s State, l limits) Outcome {
	wc, fe := convergedWorkers(s, l), exhaustedFirms(s, l)
	switch {
	case wc && convergedFirms(s, l):
		return Outcome{Success, ReasonAllMatched}
	case !wc && fe:
		return Outcome{TooLow, ReasonFirmsExhausted}
	case wc && fe:
		return Outcome{TooLow, ReasonFirmsExhaustedAtWorkerBound}
	case wc:
		return Outcome{TooHigh, ReasonWorkersExhausted}
	case exhaustedWorkers(s, l):
		// Stepped past the bound without landing within tol of it.
		return Outcome{TooHigh, ReasonWorkersExhausted}
	}
	return Outcome{Continue, ReasonNone}
}
