// SPDX-License-Identifier: MIT

// Package metrics exports solver activity as Prometheus metrics.
//
// A Collector implements shooting.Observer: hand it to a solve through
// shooting.WithObserver and every trial and every finished solve is counted.
// Each Collector owns a private registry, so several can live in one process
// (tests, sweeps) without clashing on the default registerer.
//
// Series:
//
//	<ns>_trials_total{model,verdict,reason}   bisection trials by outcome
//	<ns>_integrator_steps_total{model,kind}   accepted/rejected steps, RHS evaluations
//	<ns>_solves_total{model,method,result}    finished solves
//	<ns>_solve_duration_seconds{model}        wall time of a solve
//	<ns>_solve_trials{model}                  trials needed per solve
//
// Failed trials and solves carry verdict/result "failed" and a reason derived
// from the error (see Reason).
package metrics
