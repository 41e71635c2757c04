// SPDX-License-Identifier: MIT

package symbolic

import (
	"math"
	"strconv"
	"strings"
)

// Expr is a node of an expression tree. Trees are immutable: Sub and Diff
// return new trees and never modify the receiver.
type Expr interface {
	// String renders the expression in the syntax accepted by Parse.
	String() string
	// Diff returns the partial derivative with respect to the named symbol.
	Diff(name string) Expr
	// Sub replaces every occurrence of the named symbol with value.
	Sub(name string, value Expr) Expr
	// Equal reports structural equality.
	Equal(other Expr) bool

	symbols(out map[string]struct{})
	compile(index map[string]int) (Func, error)
}

// ---------- Num ----------

// Num is a float64 constant.
type Num struct{ val float64 }

// N returns the constant v.
func N(v float64) *Num { return &Num{val: v} }

// Value returns the constant.
func (n *Num) Value() float64 { return n.val }

func (n *Num) String() string              { return strconv.FormatFloat(n.val, 'g', -1, 64) }
func (n *Num) Diff(string) Expr            { return N(0) }
func (n *Num) Sub(string, Expr) Expr       { return n }
func (n *Num) Equal(other Expr) bool       { o, ok := other.(*Num); return ok && o.val == n.val }
func (n *Num) symbols(map[string]struct{}) {}

func asNum(e Expr) (*Num, bool)      { n, ok := e.(*Num); return n, ok }
func isConst(e Expr, v float64) bool { n, ok := asNum(e); return ok && n.val == v }

// ---------- Sym ----------

// Sym is a named symbol: a state variable, the independent variable or a
// model parameter.
type Sym struct{ name string }

// S returns the symbol with the given name.
func S(name string) *Sym { return &Sym{name: name} }

// Name returns the symbol name.
func (s *Sym) Name() string   { return s.name }
func (s *Sym) String() string { return s.name }

func (s *Sym) Diff(name string) Expr {
	if s.name == name {
		return N(1)
	}
	return N(0)
}

func (s *Sym) Sub(name string, value Expr) Expr {
	if s.name == name {
		return value
	}
	return s
}

func (s *Sym) Equal(other Expr) bool            { o, ok := other.(*Sym); return ok && o.name == s.name }
func (s *Sym) symbols(out map[string]struct{}) { out[s.name] = struct{}{} }

// ---------- Add ----------

// Add is a sum of two or more terms. Build it with AddOf.
type Add struct{ terms []Expr }

// AddOf returns the simplified sum of terms: nested sums are flattened,
// constants are folded into a single trailing constant and zeros dropped.
func AddOf(terms ...Expr) Expr {
	flat := make([]Expr, 0, len(terms))
	acc := 0.0
	for _, t := range terms {
		switch v := t.(type) {
		case *Num:
			acc += v.val
		case *Add:
			for _, inner := range v.terms {
				if n, ok := asNum(inner); ok {
					acc += n.val
					continue
				}
				flat = append(flat, inner)
			}
		default:
			flat = append(flat, t)
		}
	}
	if acc != 0 {
		flat = append(flat, N(acc))
	}
	switch len(flat) {
	case 0:
		return N(0)
	case 1:
		return flat[0]
	}
	return &Add{terms: flat}
}

// SubOf returns a - b.
func SubOf(a, b Expr) Expr { return AddOf(a, Neg(b)) }

// Neg returns -e.
func Neg(e Expr) Expr { return MulOf(N(-1), e) }

func (a *Add) String() string {
	var b strings.Builder
	b.WriteString(a.terms[0].String())
	for _, t := range a.terms[1:] {
		s := t.String()
		if strings.HasPrefix(s, "-") {
			b.WriteString(" - ")
			b.WriteString(s[1:])
			continue
		}
		b.WriteString(" + ")
		b.WriteString(s)
	}
	return b.String()
}

func (a *Add) Diff(name string) Expr {
	d := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		d[i] = t.Diff(name)
	}
	return AddOf(d...)
}

func (a *Add) Sub(name string, value Expr) Expr {
	out := make([]Expr, len(a.terms))
	for i, t := range a.terms {
		out[i] = t.Sub(name, value)
	}
	return AddOf(out...)
}

func (a *Add) Equal(other Expr) bool {
	o, ok := other.(*Add)
	return ok && equalAll(a.terms, o.terms)
}

func (a *Add) symbols(out map[string]struct{}) {
	for _, t := range a.terms {
		t.symbols(out)
	}
}

// ---------- Mul ----------

// Mul is a product of two or more factors. Build it with MulOf.
type Mul struct{ factors []Expr }

// MulOf returns the simplified product of factors: nested products are
// flattened, constants folded into a single leading coefficient, ones
// dropped, and any zero factor collapses the product to 0.
func MulOf(factors ...Expr) Expr {
	flat := make([]Expr, 0, len(factors))
	coeff := 1.0
	for _, f := range factors {
		switch v := f.(type) {
		case *Num:
			coeff *= v.val
		case *Mul:
			for _, inner := range v.factors {
				if n, ok := asNum(inner); ok {
					coeff *= n.val
					continue
				}
				flat = append(flat, inner)
			}
		default:
			flat = append(flat, f)
		}
	}
	if coeff == 0 {
		return N(0)
	}
	if coeff != 1 {
		flat = append([]Expr{N(coeff)}, flat...)
	}
	switch len(flat) {
	case 0:
		return N(coeff)
	case 1:
		return flat[0]
	}
	return &Mul{factors: flat}
}

// DivOf returns a / b.
func DivOf(a, b Expr) Expr { return MulOf(a, PowOf(b, N(-1))) }

func (m *Mul) String() string {
	factors := m.factors
	prefix := ""
	if isConst(factors[0], -1) {
		prefix = "-"
		factors = factors[1:]
	}
	parts := make([]string, len(factors))
	for i, f := range factors {
		s := f.String()
		if _, ok := f.(*Add); ok {
			s = "(" + s + ")"
		}
		parts[i] = s
	}
	return prefix + strings.Join(parts, "*")
}

// Diff applies the product rule: sum over i of f_1 ... f_i' ... f_n.
func (m *Mul) Diff(name string) Expr {
	terms := make([]Expr, 0, len(m.factors))
	for i := range m.factors {
		d := m.factors[i].Diff(name)
		if isConst(d, 0) {
			continue
		}
		prod := make([]Expr, len(m.factors))
		copy(prod, m.factors)
		prod[i] = d
		terms = append(terms, MulOf(prod...))
	}
	return AddOf(terms...)
}

func (m *Mul) Sub(name string, value Expr) Expr {
	out := make([]Expr, len(m.factors))
	for i, f := range m.factors {
		out[i] = f.Sub(name, value)
	}
	return MulOf(out...)
}

func (m *Mul) Equal(other Expr) bool {
	o, ok := other.(*Mul)
	return ok && equalAll(m.factors, o.factors)
}

func (m *Mul) symbols(out map[string]struct{}) {
	for _, f := range m.factors {
		f.symbols(out)
	}
}

// ---------- Pow ----------

// Pow is base^exp. Build it with PowOf.
type Pow struct{ base, exp Expr }

// PowOf returns the simplified power base^exp.
func PowOf(base, exp Expr) Expr {
	if isConst(exp, 0) || isConst(base, 1) {
		return N(1)
	}
	if isConst(exp, 1) {
		return base
	}
	if b, ok := asNum(base); ok {
		if e, ok := asNum(exp); ok {
			if v := math.Pow(b.val, e.val); !math.IsNaN(v) && !math.IsInf(v, 0) {
				return N(v)
			}
		}
	}
	return &Pow{base: base, exp: exp}
}

// SqrtOf returns arg^0.5.
func SqrtOf(arg Expr) Expr { return PowOf(arg, N(0.5)) }

func (p *Pow) String() string {
	base := p.base.String()
	switch b := p.base.(type) {
	case *Add, *Mul, *Pow:
		base = "(" + base + ")"
	case *Num:
		if b.val < 0 {
			base = "(" + base + ")"
		}
	}
	exp := p.exp.String()
	switch e := p.exp.(type) {
	case *Sym, *Call:
	case *Num:
		if e.val < 0 {
			exp = "(" + exp + ")"
		}
	default:
		exp = "(" + exp + ")"
	}
	return base + "^" + exp
}

// Diff uses the power rule for constant exponents and the general rule
// d(b^e) = b^e * (e' * log(b) + e * b' / b) otherwise.
func (p *Pow) Diff(name string) Expr {
	db := p.base.Diff(name)
	if e, ok := asNum(p.exp); ok {
		return MulOf(N(e.val), PowOf(p.base, N(e.val-1)), db)
	}
	de := p.exp.Diff(name)
	return MulOf(p, AddOf(
		MulOf(de, LogOf(p.base)),
		MulOf(p.exp, db, PowOf(p.base, N(-1))),
	))
}

func (p *Pow) Sub(name string, value Expr) Expr {
	return PowOf(p.base.Sub(name, value), p.exp.Sub(name, value))
}

func (p *Pow) Equal(other Expr) bool {
	o, ok := other.(*Pow)
	return ok && p.base.Equal(o.base) && p.exp.Equal(o.exp)
}

func (p *Pow) symbols(out map[string]struct{}) {
	p.base.symbols(out)
	p.exp.symbols(out)
}

// ---------- Call ----------

// Call is an elementary function applied to one argument.
type Call struct {
	name string
	arg  Expr
}

// call folds constant arguments and otherwise builds the node.
func call(name string, arg Expr) Expr {
	if n, ok := asNum(arg); ok {
		if fn, known := elementary(name); known {
			if v := fn(n.val); !math.IsNaN(v) && !math.IsInf(v, 0) {
				return N(v)
			}
		}
	}
	return &Call{name: name, arg: arg}
}

func ExpOf(arg Expr) Expr  { return call("exp", arg) }
func LogOf(arg Expr) Expr  { return call("log", arg) }
func SinOf(arg Expr) Expr  { return call("sin", arg) }
func CosOf(arg Expr) Expr  { return call("cos", arg) }
func TanOf(arg Expr) Expr  { return call("tan", arg) }
func TanhOf(arg Expr) Expr { return call("tanh", arg) }
func AbsOf(arg Expr) Expr  { return call("abs", arg) }
func SignOf(arg Expr) Expr { return call("sign", arg) }
func ErfOf(arg Expr) Expr  { return call("erf", arg) }

// Name returns the function name.
func (f *Call) Name() string   { return f.name }
func (f *Call) String() string { return f.name + "(" + f.arg.String() + ")" }

func (f *Call) Diff(name string) Expr {
	du := f.arg.Diff(name)
	if isConst(du, 0) {
		return N(0)
	}
	u := f.arg
	var outer Expr
	switch f.name {
	case "exp":
		outer = ExpOf(u)
	case "log":
		outer = PowOf(u, N(-1))
	case "sin":
		outer = CosOf(u)
	case "cos":
		outer = Neg(SinOf(u))
	case "tan":
		outer = AddOf(N(1), PowOf(TanOf(u), N(2)))
	case "tanh":
		outer = SubOf(N(1), PowOf(TanhOf(u), N(2)))
	case "abs":
		outer = SignOf(u)
	case "erf":
		outer = MulOf(N(2/math.SqrtPi), ExpOf(Neg(PowOf(u, N(2)))))
	default: // sign
		return N(0)
	}
	return MulOf(outer, du)
}

func (f *Call) Sub(name string, value Expr) Expr { return call(f.name, f.arg.Sub(name, value)) }

func (f *Call) Equal(other Expr) bool {
	o, ok := other.(*Call)
	return ok && o.name == f.name && f.arg.Equal(o.arg)
}

func (f *Call) symbols(out map[string]struct{}) { f.arg.symbols(out) }

// elementary returns the numeric kernel of a named function.
func elementary(name string) (func(float64) float64, bool) {
	switch name {
	case "exp":
		return math.Exp, true
	case "log":
		return math.Log, true
	case "sin":
		return math.Sin, true
	case "cos":
		return math.Cos, true
	case "tan":
		return math.Tan, true
	case "tanh":
		return math.Tanh, true
	case "abs":
		return math.Abs, true
	case "erf":
		return math.Erf, true
	case "sign":
		return sign, true
	}
	return nil, false
}

func sign(v float64) float64 {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}

func equalAll(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
