// SPDX-License-Identifier: MIT

package symbolic

import (
	"fmt"
	"math"
	"sort"
)

// Func is a compiled scalar expression. args holds the values of the
// argument list given to Compile, in the same order.
type Func func(args []float64) float64

// VectorFunc is a compiled list of expressions. It writes len(exprs) values
// into dst (allocating when dst is too short) and returns it.
type VectorFunc func(args []float64, dst []float64) []float64

// MatrixFunc is a compiled rows×cols grid of expressions. It writes the values
// row-major into dst (allocating when dst is too short) and returns it.
type MatrixFunc func(args []float64, dst []float64) []float64

// Compile turns e into a closure over the ordered argument list args.
// Every free symbol of e must appear in args; otherwise ErrUndefinedSymbol is
// returned and nothing is compiled. Arguments that e does not use are allowed.
//
// Complexity: O(size of e) once; evaluation is a single closure walk with no
// allocation.
func Compile(e Expr, args []string) (Func, error) {
	index, err := argIndex(args)
	if err != nil {
		return nil, err
	}
	if e == nil {
		return nil, ErrNilExpr
	}
	return e.compile(index)
}

// CompileVector compiles each expression against the same argument list.
func CompileVector(exprs []Expr, args []string) (VectorFunc, error) {
	index, err := argIndex(args)
	if err != nil {
		return nil, err
	}
	fns, err := compileAll(exprs, index)
	if err != nil {
		return nil, err
	}
	n := len(fns)
	return func(vals []float64, dst []float64) []float64 {
		if len(dst) < n {
			dst = make([]float64, n)
		}
		for i, f := range fns {
			dst[i] = f(vals)
		}
		return dst[:n]
	}, nil
}

// CompileMatrix compiles a rectangular grid of expressions (for example the
// output of Jacobian). Ragged input is reported as ErrSyntax.
func CompileMatrix(grid [][]Expr, args []string) (MatrixFunc, error) {
	index, err := argIndex(args)
	if err != nil {
		return nil, err
	}
	var flat []Expr
	cols := -1
	for i, row := range grid {
		if cols >= 0 && len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d entries, want %d", ErrSyntax, i, len(row), cols)
		}
		cols = len(row)
		flat = append(flat, row...)
	}
	fns, err := compileAll(flat, index)
	if err != nil {
		return nil, err
	}
	n := len(fns)
	return func(vals []float64, dst []float64) []float64 {
		if len(dst) < n {
			dst = make([]float64, n)
		}
		for i, f := range fns {
			dst[i] = f(vals)
		}
		return dst[:n]
	}, nil
}

// Eval compiles e against the keys of env and evaluates it once.
// It is a convenience for tests and diagnostics, not for hot loops.
func Eval(e Expr, env map[string]float64) (float64, error) {
	names := make([]string, 0, len(env))
	for name := range env {
		names = append(names, name)
	}
	sort.Strings(names)
	f, err := Compile(e, names)
	if err != nil {
		return 0, err
	}
	vals := make([]float64, len(names))
	for i, name := range names {
		vals[i] = env[name]
	}
	return f(vals), nil
}

func argIndex(args []string) (map[string]int, error) {
	index := make(map[string]int, len(args))
	for i, name := range args {
		if _, dup := index[name]; dup || name == "" {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateArgument, name)
		}
		index[name] = i
	}
	return index, nil
}

func compileAll(exprs []Expr, index map[string]int) ([]Func, error) {
	fns := make([]Func, len(exprs))
	for i, e := range exprs {
		if e == nil {
			return nil, fmt.Errorf("%w at position %d", ErrNilExpr, i)
		}
		f, err := e.compile(index)
		if err != nil {
			return nil, err
		}
		fns[i] = f
	}
	return fns, nil
}

func (n *Num) compile(map[string]int) (Func, error) {
	v := n.val
	return func([]float64) float64 { return v }, nil
}

func (s *Sym) compile(index map[string]int) (Func, error) {
	i, ok := index[s.name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUndefinedSymbol, s.name)
	}
	return func(args []float64) float64 { return args[i] }, nil
}

func (a *Add) compile(index map[string]int) (Func, error) {
	fns, err := compileAll(a.terms, index)
	if err != nil {
		return nil, err
	}
	if len(fns) == 2 {
		l, r := fns[0], fns[1]
		return func(args []float64) float64 { return l(args) + r(args) }, nil
	}
	return func(args []float64) float64 {
		sum := 0.0
		for _, f := range fns {
			sum += f(args)
		}
		return sum
	}, nil
}

func (m *Mul) compile(index map[string]int) (Func, error) {
	fns, err := compileAll(m.factors, index)
	if err != nil {
		return nil, err
	}
	if len(fns) == 2 {
		l, r := fns[0], fns[1]
		return func(args []float64) float64 { return l(args) * r(args) }, nil
	}
	return func(args []float64) float64 {
		prod := 1.0
		for _, f := range fns {
			prod *= f(args)
		}
		return prod
	}, nil
}

func (p *Pow) compile(index map[string]int) (Func, error) {
	base, err := p.base.compile(index)
	if err != nil {
		return nil, err
	}
	if e, ok := asNum(p.exp); ok {
		switch e.val {
		case 2:
			return func(args []float64) float64 { b := base(args); return b * b }, nil
		case -1:
			return func(args []float64) float64 { return 1 / base(args) }, nil
		case 0.5:
			return func(args []float64) float64 { return math.Sqrt(base(args)) }, nil
		}
		k := e.val
		return func(args []float64) float64 { return math.Pow(base(args), k) }, nil
	}
	exp, err := p.exp.compile(index)
	if err != nil {
		return nil, err
	}
	return func(args []float64) float64 { return math.Pow(base(args), exp(args)) }, nil
}

func (f *Call) compile(index map[string]int) (Func, error) {
	arg, err := f.arg.compile(index)
	if err != nil {
		return nil, err
	}
	fn, ok := elementary(f.name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFunction, f.name)
	}
	return func(args []float64) float64 { return fn(arg(args)) }, nil
}
