// SPDX-License-Identifier: MIT

package integrator

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ros2Gamma makes the two-stage scheme L-stable.
const ros2Gamma = 1 + 1/math.Sqrt2

// ros2Step is one step of the two-stage Rosenbrock method
//
//	(I - γhJ) k1 = f(x, y)
//	(I - γhJ) k2 = f(x + h, y + h·k1) - 2·k1
//	y⁺ = y + 1.5h·k1 + 0.5h·k2
//
// with the linearly implicit Euler solution y + h·k1 as the embedded
// first-order estimate.
func (in *Integrator) ros2Step(x, h float64) error {
	if in.jac == nil {
		return ErrNoJacobian
	}
	n := len(in.y)
	J, err := in.jac(x, in.y)
	if err != nil {
		return err
	}
	in.stats.JacobianEvaluations++
	if r, c := J.Dims(); r != n || c != n {
		return fmt.Errorf("%w: jacobian is %dx%d, state has %d", ErrDimension, r, c, n)
	}

	W := mat.NewDense(n, n, nil)
	W.Scale(-ros2Gamma*h, J)
	for i := 0; i < n; i++ {
		W.Set(i, i, W.At(i, i)+1)
	}
	var lu mat.LU
	lu.Factorize(W)
	if lu.Det() == 0 {
		return fmt.Errorf("%w: h=%g at x=%g", ErrSingularJacobian, h, x)
	}

	f0, f1 := in.k[0], in.k[1]
	if err := in.eval(x, in.y, f0); err != nil {
		return err
	}
	k1 := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(k1, false, mat.NewVecDense(n, f0)); err != nil {
		return fmt.Errorf("%w: %w", ErrSingularJacobian, err)
	}

	for i := 0; i < n; i++ {
		in.ytmp[i] = in.y[i] + h*k1.AtVec(i)
	}
	if err := in.eval(x+h, in.ytmp, f1); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		f1[i] -= 2 * k1.AtVec(i)
	}
	k2 := mat.NewVecDense(n, nil)
	if err := lu.SolveVecTo(k2, false, mat.NewVecDense(n, f1)); err != nil {
		return fmt.Errorf("%w: %w", ErrSingularJacobian, err)
	}

	for i := 0; i < n; i++ {
		a, b := k1.AtVec(i), k2.AtVec(i)
		in.ynew[i] = in.y[i] + 1.5*h*a + 0.5*h*b
		in.yerr[i] = 0.5 * h * (a + b)
	}
	return nil
}
