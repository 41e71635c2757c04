// SPDX-License-Identifier: MIT

package shooting

import (
	"time"

	"github.com/google/uuid"

	"github.com/katalvlaran/sortshoot/integrator"
	"github.com/katalvlaran/sortshoot/model"
)

// TrialReport describes one bisection trial.
type TrialReport struct {
	Model   string
	Trial   int
	Guess   float64
	Bracket Bracket // bracket the guess was taken from
	Outcome Outcome // zero value when the trial failed
	Rows    int
	Stats   integrator.Stats
	Err     error
}

// SolveReport describes a finished Solve call, successful or not.
type SolveReport struct {
	ID            uuid.UUID
	Model         string
	Assortativity model.Assortativity
	Method        string
	Trials        int
	Outcome       Outcome
	Guess         float64
	Duration      time.Duration
	Err           error
}

// Success reports whether the solve found an equilibrium.
func (r SolveReport) Success() bool { return r.Err == nil && r.Outcome.Verdict == Success }

// Observer receives reports from a Solver. Calls happen on the solving
// goroutine; an Observer shared between solvers must be safe for concurrent
// use.
type Observer interface {
	ObserveTrial(TrialReport)
	ObserveSolve(SolveReport)
}
