// SPDX-License-Identifier: MIT

// Package symbolic is the small expression kernel behind the shooting solver.
//
// It covers exactly what equilibrium conditions need before they can be
// integrated numerically:
//
//   - Expression trees over float64 constants, named symbols, sums, products,
//     powers and a fixed set of elementary functions (exp, log, sin, cos, tan,
//     tanh, abs, sign, erf).
//   - A text parser (Parse) so that models can be written as plain strings.
//   - Symbolic differentiation (Diff, Jacobian) and substitution (Sub).
//   - Compilation of a tree into a closure over a fixed, ordered argument list
//     (Compile, CompileVector, CompileMatrix). Compiled functions are pure and
//     safe for concurrent use.
//
// Compilation is where configuration problems surface: a symbol that is not in
// the argument list yields ErrUndefinedSymbol before any evaluation happens.
//
// Usage:
//
//	e, _ := symbolic.Parse("a*x^2 + exp(-mu)")
//	f, _ := symbolic.Compile(e, []string{"x", "mu", "a"})
//	v := f([]float64{2, 0, 3}) // 13
//
// Simplification is local and rule-based (constant folding, neutral elements,
// flattening); it is not a canonical form.
package symbolic
