// SPDX-License-Identifier: MIT

package evaluator

import (
	"fmt"

	"gonum.org/v1/gonum/diff/fd"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sortshoot/model"
	"github.com/katalvlaran/sortshoot/symbolic"
)

// Dim is the size of the state vector [mu, theta].
const Dim = 2

// Evaluators holds the compiled equilibrium conditions of one Model.
type Evaluators struct {
	m      *model.Model
	args   []string
	params []float64

	system   symbolic.VectorFunc
	jacobian symbolic.MatrixFunc
	wage     symbolic.Func
	profit   symbolic.Func
}

// Compile builds the system, its symbolic Jacobian with respect to (mu, theta),
// the wage and the profit. Any undefined symbol is reported here, wrapped with
// the name of the offending equation, before integration can start.
func Compile(m *model.Model) (*Evaluators, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	names := m.ParamNames()
	args := make([]string, 0, 3+len(names))
	args = append(args, m.Variable(), model.MuName, model.ThetaName)
	args = append(args, names...)

	params := make([]float64, len(names))
	for i, name := range names {
		params[i], _ = m.Param(name)
	}

	eq := m.Equations()
	ev := &Evaluators{m: m, args: args, params: params}

	var err error
	if ev.system, err = symbolic.CompileVector(eq.System(), args); err != nil {
		return nil, fmt.Errorf("evaluator: system: %w", err)
	}
	jac := symbolic.Jacobian(eq.System(), []string{model.MuName, model.ThetaName})
	if ev.jacobian, err = symbolic.CompileMatrix(jac, args); err != nil {
		return nil, fmt.Errorf("evaluator: jacobian: %w", err)
	}
	if ev.wage, err = symbolic.Compile(eq.Wage, args); err != nil {
		return nil, fmt.Errorf("evaluator: wage: %w", err)
	}
	if ev.profit, err = symbolic.Compile(eq.Profit, args); err != nil {
		return nil, fmt.Errorf("evaluator: profit: %w", err)
	}
	return ev, nil
}

// Model returns the model the evaluators were compiled from.
func (ev *Evaluators) Model() *model.Model { return ev.m }

// Args returns the argument order of the compiled functions.
func (ev *Evaluators) Args() []string {
	out := make([]string, len(ev.args))
	copy(out, ev.args)
	return out
}

func (ev *Evaluators) pack(x float64, V []float64) ([]float64, error) {
	if len(V) != Dim {
		return nil, fmt.Errorf("%w: got %d", ErrStateLength, len(V))
	}
	vals := make([]float64, 3+len(ev.params))
	vals[0], vals[1], vals[2] = x, V[0], V[1]
	copy(vals[3:], ev.params)
	return vals, nil
}

// RHS returns (dmu/dx, dtheta/dx) at (x, V).
func (ev *Evaluators) RHS(x float64, V []float64) ([]float64, error) {
	vals, err := ev.pack(x, V)
	if err != nil {
		return nil, err
	}
	return ev.system(vals, make([]float64, Dim)), nil
}

// RHSInto writes the right-hand side into dst, which must have length Dim.
// It is the allocation-light form used by the integrator.
func (ev *Evaluators) RHSInto(x float64, V, dst []float64) error {
	vals, err := ev.pack(x, V)
	if err != nil {
		return err
	}
	if len(dst) != Dim {
		return fmt.Errorf("%w: dst has %d", ErrStateLength, len(dst))
	}
	ev.system(vals, dst)
	return nil
}

// Jacobian returns the 2×2 matrix ∂RHS/∂(mu, theta) at (x, V).
func (ev *Evaluators) Jacobian(x float64, V []float64) (*mat.Dense, error) {
	vals, err := ev.pack(x, V)
	if err != nil {
		return nil, err
	}
	return mat.NewDense(Dim, Dim, ev.jacobian(vals, make([]float64, Dim*Dim))), nil
}

// NumericJacobian approximates ∂RHS/∂(mu, theta) by central differences.
// It is a diagnostics probe; the solver uses the symbolic Jacobian.
func (ev *Evaluators) NumericJacobian(x float64, V []float64) (*mat.Dense, error) {
	vals, err := ev.pack(x, V)
	if err != nil {
		return nil, err
	}
	dst := mat.NewDense(Dim, Dim, nil)
	fd.Jacobian(dst, func(y, state []float64) {
		local := make([]float64, len(vals))
		copy(local, vals)
		local[1], local[2] = state[0], state[1]
		ev.system(local, y)
	}, []float64{V[0], V[1]}, &fd.JacobianSettings{Formula: fd.Central})
	return dst, nil
}

// Wage evaluates the wage at (x, V). Non-positive values are infeasible.
func (ev *Evaluators) Wage(x float64, V []float64) (float64, error) {
	return ev.positive("wage", ev.wage, x, V)
}

// Profit evaluates the profit at (x, V). Non-positive values are infeasible.
func (ev *Evaluators) Profit(x float64, V []float64) (float64, error) {
	return ev.positive("profit", ev.profit, x, V)
}

// FirmSize checks that theta is strictly positive.
func (ev *Evaluators) FirmSize(x float64, V []float64) error {
	if len(V) != Dim {
		return fmt.Errorf("%w: got %d", ErrStateLength, len(V))
	}
	if !(V[1] > 0) {
		return &FeasibilityError{Quantity: model.ThetaName, X: x, V: [2]float64{V[0], V[1]}, Value: V[1]}
	}
	return nil
}

func (ev *Evaluators) positive(quantity string, f symbolic.Func, x float64, V []float64) (float64, error) {
	vals, err := ev.pack(x, V)
	if err != nil {
		return 0, err
	}
	v := f(vals)
	// NaN fails the comparison and is reported as infeasible too.
	if !(v > 0) {
		return v, &FeasibilityError{Quantity: quantity, X: x, V: [2]float64{V[0], V[1]}, Value: v}
	}
	return v, nil
}
