// SPDX-License-Identifier: MIT

// Package integrator is a stateful ODE stepper for small systems y' = f(x, y).
//
// The Integrator keeps the current point (x, y), the chosen method, an internal
// step-size suggestion and a success flag. Callers reset it with
// SetInitialValue, advance it with Integrate(xTarget) and must check
// Successful (or the returned error) after every call: once a step fails the
// integrator refuses to move until it is reset.
//
// Methods:
//
//	dopri5    Dormand–Prince 5(4), adaptive (default)
//	bs32      Bogacki–Shampine 3(2), adaptive
//	ros2      two-stage Rosenbrock, linearly implicit, adaptive; needs a Jacobian
//	rk4       classic Runge–Kutta, fixed sub-steps
//	midpoint  explicit midpoint, fixed sub-steps
//	heun      Heun / improved Euler, fixed sub-steps
//	euler     forward Euler, fixed sub-steps
//
// Adaptive methods control the step with a mixed error norm
//
//	sc_i = atol + rtol·max(|y_i|, |ŷ_i|),  err = sqrt(mean((e_i/sc_i)²))
//
// and accept a step when err ≤ 1. Fixed methods split [x, xTarget] into equal
// sub-steps no longer than max_step (or first_step when set), or take it in one
// step when neither is set.
//
// Integration runs in either direction; the sign comes from xTarget - x.
//
// Options follow scipy's dopri5 names so that model files and the CLI can pass
// them as text (OptionsFromMap): rtol, atol, nsteps, first_step, max_step,
// safety, ifactor, dfactor.
package integrator
