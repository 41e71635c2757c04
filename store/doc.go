// SPDX-License-Identifier: MIT

// Package store persists successful solves in SQLite (modernc.org/sqlite, no
// cgo).
//
// Schema:
//
//	runs    one row per solve: uuid, model, regime, method, outcome, theta0, ...
//	params  (run_id, name, value) for the model parameters used
//	points  (run_id, idx, x, mu, theta, wage, profit), the solution table
//
// DeleteRun removes params and points with their run. A run is written in a single
// transaction, so readers never see a partial table.
package store
