// SPDX-License-Identifier: MIT

package shooting_test

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/sortshoot/evaluator"
	"github.com/katalvlaran/sortshoot/integrator"
	"github.com/katalvlaran/sortshoot/model"
	"github.com/katalvlaran/sortshoot/shooting"
	"github.com/katalvlaran/sortshoot/solution"
)

// SolverSuite runs the shooting driver end to end on closed-form models.
type SolverSuite struct {
	suite.Suite
}

func TestSolverSuite(t *testing.T) {
	suite.Run(t, new(SolverSuite))
}

// TestToyModel: linear pairing, the first guess already matches everyone.
func (s *SolverSuite) TestToyModel() {
	solver, err := shooting.New(toyModel(s.T()))
	require.NoError(s.T(), err)

	res, err := solver.Solve(2.0)
	require.NoError(s.T(), err)
	s.Equal(shooting.Success, res.Outcome.Verdict)
	s.Equal(shooting.ReasonAllMatched, res.Outcome.Reason)
	s.InDelta(1.0, res.Guess, 1e-6)
	s.Equal(shooting.DefaultKnots, res.Table.Len())
	s.Equal(res.Table, solver.Solution())

	s.Equal(0.0, res.Table.First().X)
	s.InDelta(1.0, res.Table.Last().X, 1e-9)
	s.InDelta(0.0, res.Table.Last().Mu, 1e-9)
	theta, err := res.Table.Column("theta")
	require.NoError(s.T(), err)
	for _, v := range theta {
		s.InDelta(1.0, v, 1e-12)
	}
}

// TestBisectionFindsFirmSize: the guess has to move to theta* = 1.
func (s *SolverSuite) TestBisectionFindsFirmSize() {
	for _, a := range []model.Assortativity{model.Negative, model.Positive} {
		s.Run(a.String(), func() {
			solver, err := shooting.New(sizeModel(s.T(), a))
			require.NoError(s.T(), err)

			res, err := solver.Solve(3.0)
			require.NoError(s.T(), err)
			s.Equal(shooting.Success, res.Outcome.Verdict)
			s.InDelta(1.0, res.Guess, 2e-6)
			s.Greater(res.Trials, 5)
			s.Len(solver.Trials(), res.Trials)

			start, end := 0.0, 1.0
			if a == model.Positive {
				start, end = 1.0, 0.0
			}
			s.Equal(start, res.Table.First().X)
			s.InDelta(end, res.Table.Last().X, 1e-9)
		})
	}
}

// TestTableMonotonic: x moves strictly in the direction of integration.
func (s *SolverSuite) TestTableMonotonic() {
	for _, a := range []model.Assortativity{model.Negative, model.Positive} {
		solver, err := shooting.New(sizeModel(s.T(), a))
		require.NoError(s.T(), err)
		res, err := solver.Solve(3.0)
		require.NoError(s.T(), err)

		sign := float64(res.Table.Direction())
		xs, _ := res.Table.Column("x")
		for i := 1; i < len(xs); i++ {
			s.Positive((xs[i]-xs[i-1])*sign, "%s row %d", a, i)
		}
		wantDir := solution.Increasing
		if a == model.Positive {
			wantDir = solution.Decreasing
		}
		s.Equal(wantDir, res.Table.Direction())
	}
}

// TestBracketHalves: every narrowing keeps 0 ≤ lower < guess < upper and
// halves the width.
func (s *SolverSuite) TestBracketHalves() {
	solver, err := shooting.New(sizeModel(s.T(), model.Negative))
	require.NoError(s.T(), err)
	_, err = solver.Solve(3.0)
	require.NoError(s.T(), err)

	trials := solver.Trials()
	s.Equal(shooting.Bracket{Lower: 0, Upper: 3}, trials[0].Bracket)
	for i, tr := range trials {
		b := tr.Bracket
		s.GreaterOrEqual(b.Lower, 0.0)
		s.Less(b.Lower, tr.Guess)
		s.Less(tr.Guess, b.Upper)
		if i == 0 {
			continue
		}
		prev := trials[i-1].Bracket
		s.InDelta(prev.Width()/2, b.Width(), 1e-15*prev.Width()+1e-300)
		switch trials[i-1].Outcome.Verdict {
		case shooting.TooHigh:
			s.Equal(prev.Lower, b.Lower)
			s.Equal(trials[i-1].Guess, b.Upper)
		case shooting.TooLow:
			s.Equal(trials[i-1].Guess, b.Lower)
			s.Equal(prev.Upper, b.Upper)
		default:
			s.Failf("unexpected verdict", "trial %d: %v", i, trials[i-1].Outcome)
		}
	}
}

// TestGuessUpperTooLow: the true firm size (1) lies above the ceiling.
func (s *SolverSuite) TestGuessUpperTooLow() {
	solver, err := shooting.New(sizeModel(s.T(), model.Negative))
	require.NoError(s.T(), err)

	res, err := solver.Solve(0.8)
	s.Nil(res)
	require.ErrorIs(s.T(), err, shooting.ErrGuessUpperTooLow)

	var se *shooting.SolveError
	require.True(s.T(), errors.As(err, &se))
	s.Equal(0.0, se.X)
	s.InDelta(0.8, se.V[1], 1e-6)
	s.Equal(1, solver.Solution().Len(), "only the reset row of the last trial")
	for _, tr := range solver.Trials()[:len(solver.Trials())-1] {
		s.Equal(shooting.TooLow, tr.Outcome.Verdict)
	}
}

// TestInfeasibleProfit: negative profit is fatal, not a bracket move.
func (s *SolverSuite) TestInfeasibleProfit() {
	solver, err := shooting.New(lossModel(s.T()))
	require.NoError(s.T(), err)

	_, err = solver.Solve(2.0)
	require.ErrorIs(s.T(), err, evaluator.ErrInfeasible)

	var fe *evaluator.FeasibilityError
	require.True(s.T(), errors.As(err, &fe))
	s.Equal("profit", fe.Quantity)
	s.Greater(fe.X, 0.5)
	s.Len(solver.Trials(), 1)
}

// TestIdempotent: identical inputs give identical tables.
func (s *SolverSuite) TestIdempotent() {
	m := sizeModel(s.T(), model.Positive)
	a, err := shooting.New(m)
	require.NoError(s.T(), err)
	b, err := shooting.New(m)
	require.NoError(s.T(), err)

	ra, err := a.Solve(3.0, shooting.WithKnots(50))
	require.NoError(s.T(), err)
	rb, err := b.Solve(3.0, shooting.WithKnots(50))
	require.NoError(s.T(), err)
	s.Empty(cmp.Diff(ra.Table.Rows(), rb.Table.Rows()))

	rc, err := a.Solve(3.0, shooting.WithKnots(50))
	require.NoError(s.T(), err)
	s.Empty(cmp.Diff(ra.Table.Rows(), rc.Table.Rows()))
	s.NotEqual(ra.ID, rc.ID)
}

func (s *SolverSuite) TestMaxBisections() {
	solver, err := shooting.New(sizeModel(s.T(), model.Negative))
	require.NoError(s.T(), err)

	_, err = solver.Solve(3.0, shooting.WithMaxBisections(3))
	require.ErrorIs(s.T(), err, shooting.ErrNoConvergence)
	s.Len(solver.Trials(), 4)
}

func (s *SolverSuite) TestIntegratorFailure() {
	solver, err := shooting.New(toyModel(s.T()))
	require.NoError(s.T(), err)

	_, err = solver.Solve(2.0, shooting.WithMethodOptions(
		integrator.WithMaxSteps(1), integrator.WithMaxStep(1e-4)))
	require.ErrorIs(s.T(), err, shooting.ErrIntegratorFailure)
	require.ErrorIs(s.T(), err, integrator.ErrTooManySteps)
}

func (s *SolverSuite) TestAlternativeMethods() {
	for _, method := range []string{"bs32", "rk4", "ros2"} {
		s.Run(method, func() {
			solver, err := shooting.New(sizeModel(s.T(), model.Negative))
			require.NoError(s.T(), err)
			res, err := solver.Solve(3.0, shooting.WithMethod(method))
			require.NoError(s.T(), err)
			s.Equal(method, res.Method)
			s.InDelta(1.0, res.Guess, 2e-6)
		})
	}
}

func (s *SolverSuite) TestConfigurationErrors() {
	solver, err := shooting.New(toyModel(s.T()))
	require.NoError(s.T(), err)

	_, err = solver.Solve(2.0, shooting.WithMethod("lsoda"))
	require.ErrorIs(s.T(), err, integrator.ErrUnknownMethod)
	var se *shooting.SolveError
	s.False(errors.As(err, &se))

	for _, g := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err = solver.Solve(g)
		require.ErrorIs(s.T(), err, shooting.ErrInvalidGuess)
	}

	_, err = shooting.New(nil)
	require.ErrorIs(s.T(), err, shooting.ErrNilModel)
}

func (s *SolverSuite) TestSetModelRecompiles() {
	solver, err := shooting.New(toyModel(s.T()))
	require.NoError(s.T(), err)
	_, err = solver.Solve(2.0)
	require.NoError(s.T(), err)

	m2, err := toyModel(s.T()).Override("a", 3)
	require.NoError(s.T(), err)
	require.NoError(s.T(), solver.SetModel(m2))
	s.Nil(solver.Solution())
	s.Same(m2, solver.Model())

	w, err := solver.EvaluateWage(1, []float64{0.5, 1})
	require.NoError(s.T(), err)
	s.Equal(4.0, w)
}

func (s *SolverSuite) TestProbes() {
	solver, err := shooting.New(sizeModel(s.T(), model.Negative))
	require.NoError(s.T(), err)

	rhs, err := solver.EvaluateRHS(0, []float64{1, 2})
	require.NoError(s.T(), err)
	s.Equal([]float64{-0.5, 0}, rhs)

	J, err := solver.EvaluateJacobian(0, []float64{1, 2})
	require.NoError(s.T(), err)
	s.InDelta(0.25, J.At(0, 1), 1e-15)

	_, err = solver.EvaluateProfit(0, []float64{-2, 1})
	require.ErrorIs(s.T(), err, evaluator.ErrInfeasible)
}

type recorder struct {
	trials []shooting.TrialReport
	solves []shooting.SolveReport
}

func (r *recorder) ObserveTrial(tr shooting.TrialReport) { r.trials = append(r.trials, tr) }
func (r *recorder) ObserveSolve(sr shooting.SolveReport) { r.solves = append(r.solves, sr) }

func (s *SolverSuite) TestObserver() {
	solver, err := shooting.New(sizeModel(s.T(), model.Negative))
	require.NoError(s.T(), err)

	rec := &recorder{}
	res, err := solver.Solve(3.0, shooting.WithObserver(rec), shooting.WithLogger(nil))
	require.NoError(s.T(), err)
	s.Len(rec.trials, res.Trials)
	s.Require().Len(rec.solves, 1)
	s.True(rec.solves[0].Success())
	s.Equal(res.ID, rec.solves[0].ID)
	s.Equal("size-negative", rec.solves[0].Model)

	_, err = solver.Solve(0.5, shooting.WithObserver(rec))
	require.Error(s.T(), err)
	s.Require().Len(rec.solves, 2)
	s.False(rec.solves[1].Success())
}

func TestOptions_PanicOnNonsense(t *testing.T) {
	require.Panics(t, func() { shooting.WithTolerance(0) })
	require.Panics(t, func() { shooting.WithTolerance(math.NaN()) })
	require.Panics(t, func() { shooting.WithKnots(1) })
	require.Panics(t, func() { shooting.WithMethod("") })
	require.Panics(t, func() { shooting.WithMaxBisections(0) })
}
