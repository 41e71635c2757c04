// SPDX-License-Identifier: MIT

package model

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/katalvlaran/sortshoot/symbolic"
)

// State variable names. Equations refer to the pairing value and the firm
// size by these names; they cannot be used as parameter names.
const (
	MuName    = "mu"
	ThetaName = "theta"
)

// DefaultVariable is the name of the independent (worker skill) variable.
const DefaultVariable = "x"

// Assortativity selects the sorting regime, and with it the integration
// direction of the shooting solver.
type Assortativity int

const (
	// Positive sorting: high-skill workers match high-productivity firms.
	// The solver integrates from workers.Upper down to workers.Lower.
	Positive Assortativity = iota + 1
	// Negative sorting: high-skill workers match low-productivity firms.
	// The solver integrates from workers.Lower up to workers.Upper.
	Negative
)

// String implements fmt.Stringer.
func (a Assortativity) String() string {
	switch a {
	case Positive:
		return "positive"
	case Negative:
		return "negative"
	}
	return fmt.Sprintf("Assortativity(%d)", int(a))
}

// Valid reports whether a is Positive or Negative.
func (a Assortativity) Valid() bool { return a == Positive || a == Negative }

// ParseAssortativity maps "positive"/"negative" (case-insensitive) to a value.
func ParseAssortativity(s string) (Assortativity, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "positive":
		return Positive, nil
	case "negative":
		return Negative, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidAssortativity, s)
}

// Bounds is a closed interval [Lower, Upper].
type Bounds struct {
	Lower float64
	Upper float64
}

// Width returns Upper - Lower.
func (b Bounds) Width() float64 { return b.Upper - b.Lower }

// Validate checks that both ends are finite and Lower < Upper.
func (b Bounds) Validate() error {
	if !finite(b.Lower) || !finite(b.Upper) || b.Lower >= b.Upper {
		return fmt.Errorf("%w: [%g, %g]", ErrInvalidBounds, b.Lower, b.Upper)
	}
	return nil
}

// Equations are the symbolic equilibrium conditions of a model, written over
// the independent variable, mu, theta and the parameters.
type Equations struct {
	MuPrime    symbolic.Expr // dmu/dx
	ThetaPrime symbolic.Expr // dtheta/dx
	Wage       symbolic.Expr
	Profit     symbolic.Expr
}

// System returns [MuPrime, ThetaPrime].
func (e Equations) System() []symbolic.Expr {
	return []symbolic.Expr{e.MuPrime, e.ThetaPrime}
}

func (e Equations) validate() error {
	for _, eq := range []struct {
		name string
		expr symbolic.Expr
	}{
		{"mu_prime", e.MuPrime},
		{"theta_prime", e.ThetaPrime},
		{"wage", e.Wage},
		{"profit", e.Profit},
	} {
		if eq.expr == nil {
			return fmt.Errorf("%w: %s", ErrMissingEquation, eq.name)
		}
	}
	return nil
}

// Model is an immutable description of one economy.
type Model struct {
	name          string
	assortativity Assortativity
	workers       Bounds
	firms         Bounds
	variable      string
	params        map[string]float64
	eq            Equations
}

// New validates its inputs and returns a Model.
//
// Errors: ErrInvalidAssortativity, ErrInvalidBounds, ErrMissingEquation,
// ErrInvalidParam, ErrReservedName.
func New(a Assortativity, workers, firms Bounds, eq Equations, opts ...Option) (*Model, error) {
	o := gatherOptions(opts...)
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssortativity, a)
	}
	if err := workers.Validate(); err != nil {
		return nil, fmt.Errorf("workers: %w", err)
	}
	if err := firms.Validate(); err != nil {
		return nil, fmt.Errorf("firms: %w", err)
	}
	if err := eq.validate(); err != nil {
		return nil, err
	}
	reserved := map[string]bool{o.variable: true, MuName: true, ThetaName: true}
	if o.variable == MuName || o.variable == ThetaName {
		return nil, fmt.Errorf("%w: independent variable %q", ErrReservedName, o.variable)
	}
	params := make(map[string]float64, len(o.params))
	for name, v := range o.params {
		if name == "" || !finite(v) {
			return nil, fmt.Errorf("%w: %q=%g", ErrInvalidParam, name, v)
		}
		if reserved[name] {
			return nil, fmt.Errorf("%w: parameter %q", ErrReservedName, name)
		}
		params[name] = v
	}
	return &Model{
		name:          o.name,
		assortativity: a,
		workers:       workers,
		firms:         firms,
		variable:      o.variable,
		params:        params,
		eq:            eq,
	}, nil
}

// Name returns the optional human-readable name.
func (m *Model) Name() string { return m.name }

// Assortativity returns the sorting regime.
func (m *Model) Assortativity() Assortativity { return m.assortativity }

// Workers returns the worker skill domain.
func (m *Model) Workers() Bounds { return m.workers }

// Firms returns the firm productivity domain.
func (m *Model) Firms() Bounds { return m.firms }

// Variable returns the name of the independent variable.
func (m *Model) Variable() string { return m.variable }

// Equations returns the symbolic equilibrium conditions.
func (m *Model) Equations() Equations { return m.eq }

// Params returns a copy of the parameter map.
func (m *Model) Params() map[string]float64 {
	out := make(map[string]float64, len(m.params))
	for k, v := range m.params {
		out[k] = v
	}
	return out
}

// Param returns one parameter value.
func (m *Model) Param(name string) (float64, bool) {
	v, ok := m.params[name]
	return v, ok
}

// ParamNames returns parameter names in ascending order. This is the order
// in which compiled evaluators receive parameter values.
func (m *Model) ParamNames() []string {
	names := make([]string, 0, len(m.params))
	for name := range m.params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Override returns a copy of m with parameter name set to v.
func (m *Model) Override(name string, v float64) (*Model, error) {
	if _, ok := m.params[name]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	if !finite(v) {
		return nil, fmt.Errorf("%w: %q=%g", ErrInvalidParam, name, v)
	}
	cp := *m
	cp.params = m.Params()
	cp.params[name] = v
	return &cp, nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
