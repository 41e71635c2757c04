// SPDX-License-Identifier: MIT

// Package solution holds the trajectory table a shooting trial produces.
//
// A Table is an ordered, append-only list of rows (x, mu, theta, wage,
// profit). Row 0 is the initial condition of the trial. Every later row must
// move strictly in the table's Direction: Increasing for negative assortative
// matching, Decreasing for positive. Append rejects a row that breaks this
// with ErrNonMonotonic, so a Table that exists is always well ordered.
//
// A new trial starts a new Table; tables are never rewound.
package solution
