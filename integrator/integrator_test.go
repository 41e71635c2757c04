// SPDX-License-Identifier: MIT

package integrator_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/sortshoot/integrator"
)

// growth is y' = y with Jacobian [1].
func growth() (integrator.RHSFunc, integrator.JacobianFunc) {
	f := func(_ float64, y, dydx []float64) error {
		dydx[0] = y[0]
		return nil
	}
	jac := func(float64, []float64) (*mat.Dense, error) {
		return mat.NewDense(1, 1, []float64{1}), nil
	}
	return f, jac
}

// rotation is the harmonic oscillator y1' = y2, y2' = -y1.
func rotation(_ float64, y, dydx []float64) error {
	dydx[0] = y[1]
	dydx[1] = -y[0]
	return nil
}

func TestDopri5_ExponentialGrowth(t *testing.T) {
	f, jac := growth()
	in := integrator.New(f, jac)
	assert.Equal(t, integrator.DefaultMethod, in.Method())

	in.SetInitialValue([]float64{1}, 0)
	require.NoError(t, in.Integrate(1))
	require.True(t, in.Successful())
	assert.Equal(t, 1.0, in.X())
	assert.InEpsilon(t, math.E, in.Y()[0], 1e-5)

	st := in.Stats()
	assert.Positive(t, st.Steps)
	assert.GreaterOrEqual(t, st.Evaluations, 7*st.Steps)
	assert.Zero(t, st.JacobianEvaluations)
}

func TestDopri5_ManySmallTargets(t *testing.T) {
	f, jac := growth()
	in := integrator.New(f, jac)
	in.SetInitialValue([]float64{1}, 0)

	const knots = 100
	h := 1.0 / (knots - 1)
	for i := 1; i < knots; i++ {
		require.NoError(t, in.Integrate(in.X()+h))
	}
	assert.InDelta(t, 1.0, in.X(), 1e-12)
	assert.InEpsilon(t, math.E, in.Y()[0], 1e-6)
}

func TestIntegrate_Backwards(t *testing.T) {
	f, jac := growth()
	in := integrator.New(f, jac)
	in.SetInitialValue([]float64{math.E}, 1)
	require.NoError(t, in.Integrate(0))
	assert.Equal(t, 0.0, in.X())
	assert.InEpsilon(t, 1.0, in.Y()[0], 1e-5)
	assert.Negative(t, in.Stats().LastStep)
}

func TestMethods_Accuracy(t *testing.T) {
	cases := []struct {
		method string
		opts   []integrator.Option
		tol    float64
	}{
		{"dopri5", nil, 1e-5},
		{"bs32", nil, 1e-4},
		{"ros2", []integrator.Option{integrator.WithRelTol(1e-4)}, 1e-3},
		{"rk4", []integrator.Option{integrator.WithMaxStep(0.01)}, 1e-8},
		{"midpoint", []integrator.Option{integrator.WithMaxStep(0.001), integrator.WithMaxSteps(2000)}, 1e-5},
		{"heun", []integrator.Option{integrator.WithMaxStep(0.001), integrator.WithMaxSteps(2000)}, 1e-5},
		{"euler", []integrator.Option{integrator.WithFirstStep(1e-4), integrator.WithMaxSteps(20000)}, 1e-3},
	}
	for _, tc := range cases {
		t.Run(tc.method, func(t *testing.T) {
			jac := func(float64, []float64) (*mat.Dense, error) {
				return mat.NewDense(2, 2, []float64{0, 1, -1, 0}), nil
			}
			in := integrator.New(rotation, jac)
			require.NoError(t, in.SetIntegrator(tc.method, tc.opts...))
			in.SetInitialValue([]float64{1, 0}, 0)
			require.NoError(t, in.Integrate(1))
			y := in.Y()
			assert.InDelta(t, math.Cos(1), y[0], tc.tol)
			assert.InDelta(t, -math.Sin(1), y[1], tc.tol)
		})
	}
}

func TestRos2_UsesJacobian(t *testing.T) {
	f, jac := growth()
	in := integrator.New(f, jac)
	require.NoError(t, in.SetIntegrator("ros2", integrator.WithRelTol(1e-4)))
	in.SetInitialValue([]float64{1}, 0)
	require.NoError(t, in.Integrate(0.5))
	assert.InEpsilon(t, math.Exp(0.5), in.Y()[0], 1e-3)
	assert.Positive(t, in.Stats().JacobianEvaluations)

	noJac := integrator.New(f, nil)
	require.NoError(t, noJac.SetIntegrator("ROS2"))
	noJac.SetInitialValue([]float64{1}, 0)
	require.ErrorIs(t, noJac.Integrate(0.5), integrator.ErrNoJacobian)
}

func TestRos2_SingularIterationMatrix(t *testing.T) {
	f, _ := growth()
	// I - γhJ vanishes when J = 1/(γh); pick h so that the product rounds to 1.
	gamma := 1 + 1/math.Sqrt2
	h := 0.1
	for (gamma*h)*(1/(gamma*h)) != 1 {
		h *= 1.01
	}
	v := 1 / (gamma * h)
	jac := func(float64, []float64) (*mat.Dense, error) {
		return mat.NewDense(1, 1, []float64{v}), nil
	}
	in := integrator.New(f, jac)
	require.NoError(t, in.SetIntegrator("ros2", integrator.WithFirstStep(h)))
	in.SetInitialValue([]float64{1}, 0)
	require.ErrorIs(t, in.Integrate(1), integrator.ErrSingularJacobian)
	assert.False(t, in.Successful())
}

func TestSetIntegrator_Unknown(t *testing.T) {
	f, jac := growth()
	in := integrator.New(f, jac)
	err := in.SetIntegrator("lsoda")
	require.ErrorIs(t, err, integrator.ErrUnknownMethod)
	assert.Contains(t, err.Error(), "dopri5")
	assert.Equal(t, integrator.DefaultMethod, in.Method(), "failed selection keeps the previous method")
}

func TestIntegrate_TooManySteps(t *testing.T) {
	f, jac := growth()
	in := integrator.New(f, jac)
	require.NoError(t, in.SetIntegrator("dopri5", integrator.WithMaxSteps(3), integrator.WithMaxStep(0.01)))
	in.SetInitialValue([]float64{1}, 0)

	err := in.Integrate(1)
	require.ErrorIs(t, err, integrator.ErrTooManySteps)
	assert.False(t, in.Successful())
	assert.Less(t, in.X(), 1.0)

	// sticky until reset
	require.ErrorIs(t, in.Integrate(2), integrator.ErrTooManySteps)
	in.SetInitialValue([]float64{1}, 0)
	assert.True(t, in.Successful())
	require.NoError(t, in.Integrate(0.02))
}

func TestIntegrate_RHSErrorIsReported(t *testing.T) {
	boom := errors.New("boom")
	f := func(x float64, y, dydx []float64) error {
		if x > 0.5 {
			return boom
		}
		dydx[0] = 1
		return nil
	}
	in := integrator.New(f, nil)
	require.NoError(t, in.SetIntegrator("rk4", integrator.WithMaxStep(0.1)))
	in.SetInitialValue([]float64{0}, 0)
	require.ErrorIs(t, in.Integrate(1), boom)
	assert.Equal(t, boom, in.Err())
}

func TestIntegrate_NonFinite(t *testing.T) {
	blowup := func(_ float64, y, dydx []float64) error {
		dydx[0] = math.Inf(1)
		return nil
	}
	in := integrator.New(blowup, nil)
	require.NoError(t, in.SetIntegrator("euler"))
	in.SetInitialValue([]float64{0}, 0)
	require.ErrorIs(t, in.Integrate(1), integrator.ErrNonFinite)

	in.SetInitialValue([]float64{0}, 0)
	require.ErrorIs(t, in.Integrate(math.NaN()), integrator.ErrNonFinite)
}

func TestIntegrate_NotInitialized(t *testing.T) {
	f, jac := growth()
	require.ErrorIs(t, integrator.New(f, jac).Integrate(1), integrator.ErrNotInitialized)
}

func TestIntegrate_SameTargetIsNoop(t *testing.T) {
	f, jac := growth()
	in := integrator.New(f, jac)
	in.SetInitialValue([]float64{2}, 3)
	require.NoError(t, in.Integrate(3))
	assert.Equal(t, []float64{2}, in.Y())
	assert.Zero(t, in.Stats().Evaluations)
}

func TestY_ReturnsCopy(t *testing.T) {
	f, jac := growth()
	in := integrator.New(f, jac)
	in.SetInitialValue([]float64{2}, 0)
	y := in.Y()
	y[0] = 99
	assert.Equal(t, 2.0, in.Y()[0])
}
