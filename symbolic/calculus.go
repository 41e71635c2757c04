// SPDX-License-Identifier: MIT

package symbolic

import "sort"

// Diff returns ∂e/∂name.
func Diff(e Expr, name string) Expr { return e.Diff(name) }

// Sub returns e with every occurrence of name replaced by value.
func Sub(e Expr, name string, value Expr) Expr { return e.Sub(name, value) }

// Jacobian returns the len(exprs)×len(names) matrix of partial derivatives
// J[i][j] = ∂exprs[i]/∂names[j].
func Jacobian(exprs []Expr, names []string) [][]Expr {
	out := make([][]Expr, len(exprs))
	for i, e := range exprs {
		row := make([]Expr, len(names))
		for j, name := range names {
			row[j] = e.Diff(name)
		}
		out[i] = row
	}
	return out
}

// FreeSymbols returns the sorted names of all symbols in e.
func FreeSymbols(e Expr) []string {
	set := make(map[string]struct{})
	e.symbols(set)
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
