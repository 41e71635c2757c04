// SPDX-License-Identifier: MIT

// Package sweep solves one model over a grid of parameter values in
// parallel.
//
// Every job gets its own shooting.Solver built from model.Override, so jobs
// share nothing but the immutable base Model. Concurrency is bounded by
// errgroup.SetLimit and the context is checked before each job starts; a
// running solve is never interrupted.
//
// By default a failed job is recorded in its Result and the sweep goes on;
// WithFailFast(true) cancels the remaining jobs on the first failure.
package sweep
