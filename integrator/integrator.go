// SPDX-License-Identifier: MIT

package integrator

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// RHSFunc writes f(x, y) into dydx. A returned error aborts the current
// Integrate call and is reported unchanged.
type RHSFunc func(x float64, y, dydx []float64) error

// JacobianFunc returns ∂f/∂y at (x, y). Only implicit methods call it.
type JacobianFunc func(x float64, y []float64) (*mat.Dense, error)

// Stats counts the work done since the last SetInitialValue.
type Stats struct {
	Steps               int
	Rejected            int
	Evaluations         int
	JacobianEvaluations int
	LastStep            float64 // signed
	NextStep            float64 // magnitude of the next adaptive proposal
}

// Integrator advances y' = f(x, y) one target at a time. It is not safe for
// concurrent use.
type Integrator struct {
	f   RHSFunc
	jac JacobianFunc

	name string
	m    method
	opts Options

	x     float64
	y     []float64
	ready bool
	h     float64 // magnitude of the next adaptive step; 0 ⇒ choose one
	err   error
	stats Stats

	k    [][]float64
	ytmp []float64
	ynew []float64
	yerr []float64
}

const maxStages = 7

// New returns an Integrator using DefaultMethod with default options.
// jac may be nil when no implicit method is going to be selected.
func New(f RHSFunc, jac JacobianFunc) *Integrator {
	return &Integrator{
		f:    f,
		jac:  jac,
		name: DefaultMethod,
		m:    registry[DefaultMethod],
		opts: defaultOptions(),
	}
}

// SetIntegrator selects a method by name and replaces the options with
// defaults overridden by opts. The current point is kept; the step
// suggestion and any stored failure are not.
func (in *Integrator) SetIntegrator(name string, opts ...Option) error {
	key := strings.ToLower(strings.TrimSpace(name))
	m, ok := registry[key]
	if !ok {
		return fmt.Errorf("%w: %q (have %s)", ErrUnknownMethod, name, strings.Join(Methods(), ", "))
	}
	in.name, in.m, in.opts = key, m, gatherOptions(opts...)
	in.h = 0
	return nil
}

// SetInitialValue resets the integrator to (x0, y0) and clears the step
// suggestion, the failure state and the statistics.
func (in *Integrator) SetInitialValue(y0 []float64, x0 float64) {
	n := len(y0)
	if len(in.y) != n {
		in.y = make([]float64, n)
		in.ytmp = make([]float64, n)
		in.ynew = make([]float64, n)
		in.yerr = make([]float64, n)
		in.k = make([][]float64, maxStages)
		for i := range in.k {
			in.k[i] = make([]float64, n)
		}
	}
	copy(in.y, y0)
	in.x = x0
	in.ready = true
	in.h = 0
	in.err = nil
	in.stats = Stats{}
}

// Method returns the selected method name.
func (in *Integrator) Method() string { return in.name }

// Options returns the effective options.
func (in *Integrator) Options() Options { return in.opts }

// X returns the current independent variable.
func (in *Integrator) X() float64 { return in.x }

// Y returns a copy of the current state.
func (in *Integrator) Y() []float64 {
	out := make([]float64, len(in.y))
	copy(out, in.y)
	return out
}

// Successful reports whether no step has failed since the last reset.
func (in *Integrator) Successful() bool { return in.err == nil }

// Err returns the stored failure, if any.
func (in *Integrator) Err() error { return in.err }

// Stats returns the counters accumulated since the last reset.
func (in *Integrator) Stats() Stats { return in.stats }

// Integrate advances the state to xTarget. On failure the state stays at the
// last accepted point, Successful turns false and every further call returns
// the same error until SetInitialValue.
func (in *Integrator) Integrate(xTarget float64) error {
	if in.err != nil {
		return in.err
	}
	if !in.ready {
		return ErrNotInitialized
	}
	var err error
	switch {
	case math.IsNaN(xTarget) || math.IsInf(xTarget, 0):
		err = fmt.Errorf("%w: target x=%g", ErrNonFinite, xTarget)
	case xTarget == in.x:
		return nil
	case in.m.adaptive:
		err = in.integrateAdaptive(xTarget)
	default:
		err = in.integrateFixed(xTarget)
	}
	if err != nil {
		in.err = err
	}
	return err
}

func (in *Integrator) integrateFixed(xTarget float64) error {
	x0 := in.x
	span := xTarget - x0
	sub := in.opts.maxStep
	if sub == 0 {
		sub = in.opts.firstStep
	}
	n := 1
	if sub > 0 {
		n = int(math.Ceil(math.Abs(span) / sub))
		if n < 1 {
			n = 1
		}
	}
	if n > in.opts.maxSteps {
		return fmt.Errorf("%w: %d sub-steps needed, budget %d", ErrTooManySteps, n, in.opts.maxSteps)
	}
	h := span / float64(n)
	for i := 0; i < n; i++ {
		if err := in.attempt(h); err != nil {
			return err
		}
		if !allFinite(in.ynew) {
			return fmt.Errorf("%w: y=%v at x=%g", ErrNonFinite, in.ynew, in.x+h)
		}
		copy(in.y, in.ynew)
		if i == n-1 {
			in.x = xTarget
		} else {
			in.x = x0 + float64(i+1)*h
		}
		in.stats.Steps++
		in.stats.LastStep = h
	}
	return nil
}

func (in *Integrator) integrateAdaptive(xTarget float64) error {
	dir := 1.0
	if xTarget < in.x {
		dir = -1
	}
	if in.h == 0 {
		h0, err := in.initialStep(dir)
		if err != nil {
			return err
		}
		in.h = h0
	}
	expo := 1 / float64(in.m.errOrder+1)
	o := in.opts
	rejectedLast := false

	for attempts := 0; dir*(xTarget-in.x) > 0; attempts++ {
		remaining := math.Abs(xTarget - in.x)
		if remaining <= roundoff(in.x) {
			in.x = xTarget
			break
		}
		if attempts >= o.maxSteps {
			return fmt.Errorf("%w: %d attempts, x=%g, target %g", ErrTooManySteps, attempts, in.x, xTarget)
		}
		h := in.h
		if o.maxStep > 0 && h > o.maxStep {
			h = o.maxStep
		}
		clipped := false
		if h >= remaining {
			h, clipped = remaining, true
		}
		if h <= roundoff(in.x) {
			return fmt.Errorf("%w: h=%g at x=%g", ErrStepTooSmall, h, in.x)
		}

		if err := in.attempt(dir * h); err != nil {
			return err
		}
		errNorm := in.errorNorm()
		if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
			return fmt.Errorf("%w: error estimate at x=%g", ErrNonFinite, in.x)
		}

		if errNorm <= 1 {
			if !allFinite(in.ynew) {
				return fmt.Errorf("%w: y=%v at x=%g", ErrNonFinite, in.ynew, in.x+dir*h)
			}
			copy(in.y, in.ynew)
			if clipped {
				in.x = xTarget
			} else {
				in.x += dir * h
			}
			in.stats.Steps++
			in.stats.LastStep = dir * h

			factor := o.ifactor
			if errNorm > 0 {
				factor = math.Min(o.ifactor, math.Max(o.dfactor, o.safety*math.Pow(errNorm, -expo)))
			}
			if rejectedLast {
				factor = math.Min(factor, 1)
			}
			next := h * factor
			if clipped {
				// A step shortened to land on the target says little about
				// the scale of the problem.
				next = math.Max(next, in.h)
			}
			in.h = next
			rejectedLast = false
			continue
		}

		in.stats.Rejected++
		in.h = h * math.Max(o.dfactor, o.safety*math.Pow(errNorm, -expo))
		rejectedLast = true
	}
	in.stats.NextStep = in.h
	return nil
}

// initialStep follows Hairer, Nørsett & Wanner's starting-step heuristic.
func (in *Integrator) initialStep(dir float64) (float64, error) {
	o := in.opts
	if o.firstStep > 0 {
		return o.firstStep, nil
	}
	f0, f1 := in.k[0], in.k[1]
	if err := in.eval(in.x, in.y, f0); err != nil {
		return 0, err
	}
	n := float64(len(in.y))
	var d0, d1 float64
	for i, y := range in.y {
		sc := o.atol + o.rtol*math.Abs(y)
		d0 += sq(scaled(y, sc))
		d1 += sq(scaled(f0[i], sc))
	}
	d0, d1 = math.Sqrt(d0/n), math.Sqrt(d1/n)

	h0 := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h0 = 0.01 * d0 / d1
	}
	for i := range in.y {
		in.ytmp[i] = in.y[i] + dir*h0*f0[i]
	}
	if err := in.eval(in.x+dir*h0, in.ytmp, f1); err != nil {
		return 0, err
	}
	var d2 float64
	for i, y := range in.y {
		sc := o.atol + o.rtol*math.Abs(y)
		d2 += sq(scaled(f1[i]-f0[i], sc))
	}
	d2 = math.Sqrt(d2/n) / h0

	var h1 float64
	if m := math.Max(d1, d2); m <= 1e-15 {
		h1 = math.Max(1e-6, h0*1e-3)
	} else {
		h1 = math.Pow(0.01/m, 1/float64(in.m.errOrder+1))
	}
	h := math.Min(100*h0, h1)
	if o.maxStep > 0 {
		h = math.Min(h, o.maxStep)
	}
	if math.IsNaN(h) || h <= 0 {
		return 0, fmt.Errorf("%w: initial step at x=%g", ErrNonFinite, in.x)
	}
	return h, nil
}

// attempt computes in.ynew (and in.yerr for embedded pairs) for one signed
// step h without moving the integrator.
func (in *Integrator) attempt(h float64) error {
	if in.m.kind == kindRosenbrock {
		return in.ros2Step(in.x, h)
	}
	return in.explicitStep(in.m.tableau, in.x, h)
}

func (in *Integrator) explicitStep(t *tableau, x, h float64) error {
	n := len(in.y)
	for s := 0; s < t.stages(); s++ {
		copy(in.ytmp, in.y)
		for j, a := range t.a[s] {
			if a == 0 {
				continue
			}
			for i := 0; i < n; i++ {
				in.ytmp[i] += h * a * in.k[j][i]
			}
		}
		if err := in.eval(x+t.c[s]*h, in.ytmp, in.k[s]); err != nil {
			return err
		}
	}
	for i := 0; i < n; i++ {
		var sum, esum float64
		for s, b := range t.b {
			sum += b * in.k[s][i]
			if t.e != nil {
				esum += t.e[s] * in.k[s][i]
			}
		}
		in.ynew[i] = in.y[i] + h*sum
		in.yerr[i] = h * esum
	}
	return nil
}

func (in *Integrator) eval(x float64, y, dst []float64) error {
	in.stats.Evaluations++
	return in.f(x, y, dst)
}

func (in *Integrator) errorNorm() float64 {
	o := in.opts
	var sum float64
	for i, e := range in.yerr {
		sc := o.atol + o.rtol*math.Max(math.Abs(in.y[i]), math.Abs(in.ynew[i]))
		sum += sq(scaled(e, sc))
	}
	return math.Sqrt(sum / float64(len(in.yerr)))
}

// scaled returns v/sc, treating 0/0 as 0.
func scaled(v, sc float64) float64 {
	if v == 0 {
		return 0
	}
	return v / sc
}

func sq(v float64) float64 { return v * v }

func roundoff(x float64) float64 {
	const eps = 2.220446049250313e-16
	return 16 * eps * math.Max(math.Abs(x), 1)
}

func allFinite(v []float64) bool {
	for _, f := range v {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
