// SPDX-License-Identifier: MIT

package main

import (
	"math"
	"sort"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/katalvlaran/sortshoot/integrator"
	"github.com/katalvlaran/sortshoot/shooting"
)

// solveFlags are the solver settings shared by solve and sweep.
type solveFlags struct {
	modelPath     string
	sets          []string
	guess         float64
	tol           float64
	knots         int
	method        string
	methodOpts    []string
	maxBisections int
}

func (f *solveFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.modelPath, "model", "m", "", "Model file (YAML)")
	fs.StringArrayVar(&f.sets, "set", nil, "Override a model parameter, name=value (repeatable)")
	fs.Float64VarP(&f.guess, "guess", "g", 10, "Upper end of the bracket for the initial firm size")
	fs.Float64Var(&f.tol, "tol", shooting.DefaultTolerance, "Boundary and zero-surplus tolerance")
	fs.IntVar(&f.knots, "knots", shooting.DefaultKnots, "Grid points across the worker domain")
	fs.StringVar(&f.method, "method", shooting.DefaultMethod, "Integration method: "+joinMethods())
	fs.StringArrayVar(&f.methodOpts, "method-opt", nil, "Integrator option key=value: rtol, atol, nsteps, first_step, max_step, safety, ifactor, dfactor (repeatable)")
	fs.IntVar(&f.maxBisections, "max-bisections", shooting.DefaultMaxBisections, "Maximum number of bracket narrowings")
}

// options validates the flags and turns them into solver options. Flag
// values the option constructors would panic on are reported as errors.
func (f *solveFlags) options(logger *zap.Logger) ([]shooting.Option, error) {
	switch {
	case !(f.tol > 0) || math.IsInf(f.tol, 0):
		return nil, usageError("--tol must be finite and > 0")
	case f.knots < 2:
		return nil, usageError("--knots must be at least 2")
	case f.method == "":
		return nil, usageError("--method must be non-empty")
	case f.maxBisections < 1:
		return nil, usageError("--max-bisections must be > 0")
	}
	kv, err := parseAssignments("method-opt", f.methodOpts)
	if err != nil {
		return nil, err
	}
	inOpts, err := integrator.OptionsFromMap(kv)
	if err != nil {
		return nil, err
	}
	return []shooting.Option{
		shooting.WithTolerance(f.tol),
		shooting.WithKnots(f.knots),
		shooting.WithMethod(f.method),
		shooting.WithMethodOptions(inOpts...),
		shooting.WithMaxBisections(f.maxBisections),
		shooting.WithLogger(logger),
	}, nil
}

type usageError string

func (e usageError) Error() string { return string(e) }

func joinMethods() string { return strings.Join(integrator.Methods(), ", ") }

func sortedKeys(kv map[string]float64) []string {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
