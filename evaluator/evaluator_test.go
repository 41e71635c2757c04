// SPDX-License-Identifier: MIT

package evaluator_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sortshoot/evaluator"
	"github.com/katalvlaran/sortshoot/model"
	"github.com/katalvlaran/sortshoot/symbolic"
)

var unit = model.Bounds{Lower: 0, Upper: 1}

// nonlinear couples both states so that every Jacobian entry is non-trivial.
func nonlinear(t *testing.T) *model.Model {
	t.Helper()
	m, err := model.New(model.Positive, unit, unit, model.Equations{
		MuPrime:    symbolic.MustParse("a*theta*mu^2 - x"),
		ThetaPrime: symbolic.MustParse("exp(-mu)*sqrt(theta) + b"),
		Wage:       symbolic.MustParse("theta*mu + 1"),
		Profit:     symbolic.MustParse("mu - 0.5"),
	}, model.WithParams(map[string]float64{"a": 1.5, "b": 0.25}))
	require.NoError(t, err)
	return m
}

func TestCompile_ArgumentOrder(t *testing.T) {
	ev, err := evaluator.Compile(nonlinear(t))
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "mu", "theta", "a", "b"}, ev.Args())
}

func TestCompile_UndefinedSymbol(t *testing.T) {
	m, err := model.New(model.Negative, unit, unit, model.Equations{
		MuPrime:    symbolic.N(-1),
		ThetaPrime: symbolic.N(0),
		Wage:       symbolic.MustParse("1 + kappa"),
		Profit:     symbolic.N(1),
	})
	require.NoError(t, err)

	_, err = evaluator.Compile(m)
	require.ErrorIs(t, err, symbolic.ErrUndefinedSymbol)
	assert.Contains(t, err.Error(), "wage")

	_, err = evaluator.Compile(nil)
	require.ErrorIs(t, err, evaluator.ErrNilModel)
}

func TestRHS(t *testing.T) {
	ev, err := evaluator.Compile(nonlinear(t))
	require.NoError(t, err)

	x, V := 0.3, []float64{0.8, 2.0}
	got, err := ev.RHS(x, V)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDelta(t, 1.5*2.0*0.64-0.3, got[0], 1e-12)
	assert.InDelta(t, math.Exp(-0.8)*math.Sqrt(2)+0.25, got[1], 1e-12)

	dst := make([]float64, 2)
	require.NoError(t, ev.RHSInto(x, V, dst))
	assert.Equal(t, got, dst)

	_, err = ev.RHS(x, []float64{1})
	require.ErrorIs(t, err, evaluator.ErrStateLength)
}

func TestJacobian_MatchesFiniteDifferences(t *testing.T) {
	ev, err := evaluator.Compile(nonlinear(t))
	require.NoError(t, err)

	for _, pt := range []struct {
		x float64
		V []float64
	}{
		{0.1, []float64{0.9, 1.0}},
		{0.5, []float64{0.4, 3.0}},
		{0.9, []float64{0.1, 0.2}},
	} {
		sym, err := ev.Jacobian(pt.x, pt.V)
		require.NoError(t, err)
		num, err := ev.NumericJacobian(pt.x, pt.V)
		require.NoError(t, err)
		assert.True(t, mat.EqualApprox(sym, num, 1e-6), "x=%g V=%v\nsym=%v\nnum=%v",
			pt.x, pt.V, mat.Formatted(sym), mat.Formatted(num))
	}
}

func TestJacobian_Exact(t *testing.T) {
	ev, err := evaluator.Compile(nonlinear(t))
	require.NoError(t, err)

	J, err := ev.Jacobian(0.3, []float64{0.8, 2.0})
	require.NoError(t, err)
	r, c := J.Dims()
	require.Equal(t, 2, r)
	require.Equal(t, 2, c)
	assert.InDelta(t, 2*1.5*2.0*0.8, J.At(0, 0), 1e-12)
	assert.InDelta(t, 1.5*0.64, J.At(0, 1), 1e-12)
	assert.InDelta(t, -math.Exp(-0.8)*math.Sqrt(2), J.At(1, 0), 1e-12)
	assert.InDelta(t, math.Exp(-0.8)*0.5/math.Sqrt(2), J.At(1, 1), 1e-12)
}

// A profit of mu - 0.5 turns negative once half the firms are used up.
func TestProfit_Infeasible(t *testing.T) {
	ev, err := evaluator.Compile(nonlinear(t))
	require.NoError(t, err)

	p, err := ev.Profit(0.2, []float64{0.9, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.4, p, 1e-12)

	_, err = ev.Profit(0.7, []float64{0.3, 1})
	require.ErrorIs(t, err, evaluator.ErrInfeasible)
	var fe *evaluator.FeasibilityError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "profit", fe.Quantity)
	assert.Equal(t, 0.7, fe.X)
	assert.Equal(t, [2]float64{0.3, 1}, fe.V)
	assert.InDelta(t, -0.2, fe.Value, 1e-12)
}

func TestWage_ZeroIsInfeasible(t *testing.T) {
	ev, err := evaluator.Compile(nonlinear(t))
	require.NoError(t, err)

	// theta*mu + 1 == 0 at mu=-1, theta=1
	_, err = ev.Wage(0, []float64{-1, 1})
	require.ErrorIs(t, err, evaluator.ErrInfeasible)

	w, err := ev.Wage(0, []float64{1, 1})
	require.NoError(t, err)
	assert.Equal(t, 2.0, w)
}

func TestFirmSize(t *testing.T) {
	ev, err := evaluator.Compile(nonlinear(t))
	require.NoError(t, err)

	require.NoError(t, ev.FirmSize(0, []float64{1, 1e-9}))
	require.ErrorIs(t, ev.FirmSize(0, []float64{1, 0}), evaluator.ErrInfeasible)
	require.ErrorIs(t, ev.FirmSize(0, []float64{1, math.NaN()}), evaluator.ErrInfeasible)
	require.ErrorIs(t, ev.FirmSize(0, []float64{1}), evaluator.ErrStateLength)
}
