// SPDX-License-Identifier: MIT

package shooting

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sortshoot/evaluator"
	"github.com/katalvlaran/sortshoot/integrator"
	"github.com/katalvlaran/sortshoot/model"
	"github.com/katalvlaran/sortshoot/solution"
)

// Solver owns a model, its compiled evaluators and the table of the most
// recent trial.
type Solver struct {
	m      *model.Model
	ev     *evaluator.Evaluators
	table  *solution.Table
	trials []TrialReport
}

// Result is a successful solve.
type Result struct {
	ID         uuid.UUID
	Table      *solution.Table
	Outcome    Outcome
	Guess      float64 // initial firm size of the accepted trajectory
	GuessUpper float64 // ceiling passed to Solve
	Bracket    Bracket // bracket the accepted guess was taken from
	Trials     int
	Method     string
	Tolerance  float64
	Knots      int
}

// New compiles m. Compilation errors (undefined symbols, bad expressions)
// surface here.
func New(m *model.Model) (*Solver, error) {
	s := &Solver{}
	if err := s.SetModel(m); err != nil {
		return nil, err
	}
	return s, nil
}

// SetModel replaces the model, compiling a fresh set of evaluators. The
// previous solution and trial reports are dropped. On error the Solver keeps
// its previous model.
func (s *Solver) SetModel(m *model.Model) error {
	if m == nil {
		return ErrNilModel
	}
	ev, err := evaluator.Compile(m)
	if err != nil {
		return err
	}
	s.m, s.ev = m, ev
	s.table, s.trials = nil, nil
	return nil
}

// Model returns the current model.
func (s *Solver) Model() *model.Model { return s.m }

// Solution returns the table of the last trial: the equilibrium after a
// successful Solve, the abandoned trajectory after a failed one, nil before
// the first Solve.
func (s *Solver) Solution() *solution.Table { return s.table }

// Trials returns the reports of the last Solve, one per trial.
func (s *Solver) Trials() []TrialReport {
	out := make([]TrialReport, len(s.trials))
	copy(out, s.trials)
	return out
}

// EvaluateRHS returns (dmu/dx, dtheta/dx) at (x, V).
func (s *Solver) EvaluateRHS(x float64, V []float64) ([]float64, error) { return s.ev.RHS(x, V) }

// EvaluateJacobian returns ∂RHS/∂(mu, theta) at (x, V).
func (s *Solver) EvaluateJacobian(x float64, V []float64) (*mat.Dense, error) {
	return s.ev.Jacobian(x, V)
}

// EvaluateWage returns the wage at (x, V); non-positive values are infeasible.
func (s *Solver) EvaluateWage(x float64, V []float64) (float64, error) { return s.ev.Wage(x, V) }

// EvaluateProfit returns the profit at (x, V); non-positive values are infeasible.
func (s *Solver) EvaluateProfit(x float64, V []float64) (float64, error) { return s.ev.Profit(x, V) }

// run is the state of one Solve call.
type run struct {
	s          *Solver
	o          Options
	log        *zap.Logger
	dir        direction
	lim        limits
	step       float64
	guessUpper float64
	in         *integrator.Integrator
}

// Solve searches for the initial firm size in [0, guessUpper] whose
// trajectory satisfies the boundary conditions.
//
// Algorithm:
//  1. Bracket [0, guessUpper], guess = midpoint.
//  2. Reset the integrator at the starting worker bound with
//     (mu = firms.Upper, theta = guess); the table restarts at that row.
//  3. While the integrator is successful: stop if theta reached the ceiling,
//     step by width/(knots-1), check feasibility, append, classify.
//  4. Success freezes the table. TooHigh/TooLow narrows the bracket and
//     starts a new trial. Continue steps again.
//
// Every trial costs at most knots-1 steps when the classifier is well posed;
// the number of trials is bounded by WithMaxBisections + 1.
func (s *Solver) Solve(guessUpper float64, opts ...Option) (*Result, error) {
	if !(guessUpper > 0) || math.IsInf(guessUpper, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidGuess, guessUpper)
	}
	o := gatherOptions(opts...)

	in := integrator.New(s.ev.RHSInto, s.ev.Jacobian)
	if err := in.SetIntegrator(o.method, o.methodOpts...); err != nil {
		return nil, err
	}

	id := uuid.New()
	dir := directionFor(s.m.Assortativity())
	workers := s.m.Workers()
	r := &run{
		s:   s,
		o:   o,
		log: o.logger.With(zap.String("solve_id", id.String()), zap.String("model", s.m.Name())),
		dir: dir,
		lim: limits{
			workers: dir.end(workers),
			firms:   s.m.Firms().Lower,
			tol:     o.tol,
			sign:    dir.sign,
		},
		step:       workers.Width() / float64(o.knots-1),
		guessUpper: guessUpper,
		in:         in,
	}
	s.table, s.trials = nil, nil

	started := time.Now()
	res, err := r.bisect()
	report := SolveReport{
		ID:            id,
		Model:         s.m.Name(),
		Assortativity: s.m.Assortativity(),
		Method:        in.Method(),
		Trials:        len(s.trials),
		Guess:         guessUpper,
		Duration:      time.Since(started),
		Err:           err,
	}
	if err != nil {
		r.log.Warn("solve failed", zap.Int("trials", len(s.trials)), zap.Error(err))
		if o.observer != nil {
			o.observer.ObserveSolve(report)
		}
		return nil, err
	}
	res.ID = id
	report.Outcome, report.Guess = res.Outcome, res.Guess
	r.log.Info("solve succeeded",
		zap.String("outcome", res.Outcome.String()),
		zap.Float64("theta0", res.Guess),
		zap.Int("trials", res.Trials),
		zap.Int("rows", res.Table.Len()))
	if o.observer != nil {
		o.observer.ObserveSolve(report)
	}
	return res, nil
}

func (r *run) bisect() (*Result, error) {
	br := Bracket{Lower: 0, Upper: r.guessUpper}
	for trial, narrowed := 1, 0; ; trial++ {
		guess := br.Guess()
		outcome, err := r.trial(trial, guess, br)
		if err != nil {
			return nil, err
		}
		if outcome.Verdict == Success {
			return &Result{
				Table:      r.s.table,
				Outcome:    outcome,
				Guess:      guess,
				GuessUpper: r.guessUpper,
				Bracket:    br,
				Trials:     trial,
				Method:     r.in.Method(),
				Tolerance:  r.o.tol,
				Knots:      r.o.knots,
			}, nil
		}
		if narrowed == r.o.maxBisections {
			return nil, r.fail(trial, br, fmt.Errorf("%w: %d narrowings", ErrNoConvergence, narrowed))
		}
		next, err := br.narrow(outcome.Verdict)
		if err != nil {
			return nil, r.fail(trial, br, err)
		}
		br = next
		narrowed++
	}
}

// trial integrates one trajectory from the reset point until the classifier
// leaves Continue or something fails.
func (r *run) trial(trial int, guess float64, br Bracket) (Outcome, error) {
	ev, in := r.s.ev, r.in
	x0 := r.dir.start(r.s.m.Workers())
	V0 := []float64{r.s.m.Firms().Upper, guess}

	report := TrialReport{Model: r.s.m.Name(), Trial: trial, Guess: guess, Bracket: br}
	finish := func(out Outcome, err error) (Outcome, error) {
		report.Outcome, report.Err = out, err
		report.Stats = in.Stats()
		if r.s.table != nil {
			report.Rows = r.s.table.Len()
		}
		r.s.trials = append(r.s.trials, report)
		if r.o.observer != nil {
			r.o.observer.ObserveTrial(report)
		}
		r.log.Debug("trial finished",
			zap.Int("trial", trial),
			zap.Float64("guess", guess),
			zap.Float64("bracket_lower", br.Lower),
			zap.Float64("bracket_upper", br.Upper),
			zap.Stringer("verdict", out.Verdict),
			zap.Stringer("reason", out.Reason),
			zap.Int("steps", report.Stats.Steps),
			zap.Error(err))
		if err != nil {
			return out, r.fail(trial, br, err)
		}
		return out, nil
	}

	in.SetInitialValue(V0, x0)
	wage, err := ev.Wage(x0, V0)
	if err != nil {
		return finish(Outcome{}, err)
	}
	profit, err := ev.Profit(x0, V0)
	if err != nil {
		return finish(Outcome{}, err)
	}
	r.s.table = solution.New(solution.Row{X: x0, Mu: V0[0], Theta: V0[1], Wage: wage, Profit: profit}, r.dir.table)

	for in.Successful() {
		if guessUpperTooLow(in.Y()[1], r.guessUpper, r.o.tol) {
			return finish(Outcome{}, ErrGuessUpperTooLow)
		}
		if err := in.Integrate(in.X() + r.dir.sign*r.step); err != nil {
			return finish(Outcome{}, fmt.Errorf("%w: %w", ErrIntegratorFailure, err))
		}

		x, V := in.X(), in.Y()
		if err := ev.FirmSize(x, V); err != nil {
			return finish(Outcome{}, err)
		}
		wage, err := ev.Wage(x, V)
		if err != nil {
			return finish(Outcome{}, err)
		}
		profit, err := ev.Profit(x, V)
		if err != nil {
			return finish(Outcome{}, err)
		}
		st := State{X: x, Mu: V[0], Theta: V[1], Wage: wage, Profit: profit}
		if err := r.s.table.Append(solution.Row(st)); err != nil {
			return finish(Outcome{}, err)
		}

		if out := r.dir.classify(st, r.lim); out.Verdict != Continue {
			return finish(out, nil)
		}
	}
	return finish(Outcome{}, fmt.Errorf("%w: %w", ErrIntegratorFailure, in.Err()))
}

// fail wraps err with the integrator's current point.
func (r *run) fail(trial int, br Bracket, err error) error {
	y := r.in.Y()
	se := &SolveError{Trial: trial, X: r.in.X(), Bracket: br, Err: err}
	if len(y) == 2 {
		se.V = [2]float64{y[0], y[1]}
	}
	return se
}
