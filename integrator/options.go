// SPDX-License-Identifier: MIT

package integrator

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultMethod is the integration scheme used when none is chosen.
	DefaultMethod = "dopri5"

	// DefaultRelTol is the relative tolerance of the error norm.
	DefaultRelTol = 1e-6

	// DefaultAbsTol is the absolute tolerance of the error norm.
	DefaultAbsTol = 1e-12

	// DefaultMaxSteps bounds the number of accepted steps in one Integrate call.
	DefaultMaxSteps = 500

	// DefaultSafety scales every step-size proposal.
	DefaultSafety = 0.9

	// DefaultIncreaseFactor caps growth of the step between two steps.
	DefaultIncreaseFactor = 10.0

	// DefaultDecreaseFactor caps shrinkage of the step between two steps.
	DefaultDecreaseFactor = 0.2
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicRelTolInvalid   = "integrator: WithRelTol: rtol must be finite and > 0"
	panicAbsTolInvalid   = "integrator: WithAbsTol: atol must be finite and >= 0"
	panicMaxStepsInvalid = "integrator: WithMaxSteps: nsteps must be > 0"
	panicFirstInvalid    = "integrator: WithFirstStep: h must be finite and >= 0"
	panicMaxStepInvalid  = "integrator: WithMaxStep: h must be finite and >= 0"
	panicSafetyInvalid   = "integrator: WithSafety: safety must be in (0, 1]"
	panicFactorsInvalid  = "integrator: WithStepFactors: need 0 < dfactor <= 1 <= ifactor"
)

// Option mutates Options. Constructors panic only on nonsensical values
// (programmer error); text input goes through OptionsFromMap, which reports
// errors instead.
type Option func(*Options)

// Options is the effective integrator configuration.
type Options struct {
	rtol      float64
	atol      float64
	maxSteps  int
	firstStep float64 // 0 ⇒ automatic
	maxStep   float64 // 0 ⇒ unbounded
	safety    float64
	ifactor   float64
	dfactor   float64
}

// WithRelTol sets the relative tolerance.
func WithRelTol(rtol float64) Option {
	if !(rtol > 0) || math.IsInf(rtol, 0) {
		panic(panicRelTolInvalid)
	}
	return func(o *Options) { o.rtol = rtol }
}

// WithAbsTol sets the absolute tolerance.
func WithAbsTol(atol float64) Option {
	if !(atol >= 0) || math.IsInf(atol, 0) {
		panic(panicAbsTolInvalid)
	}
	return func(o *Options) { o.atol = atol }
}

// WithMaxSteps bounds the number of steps one Integrate call may take.
func WithMaxSteps(n int) Option {
	if n <= 0 {
		panic(panicMaxStepsInvalid)
	}
	return func(o *Options) { o.maxSteps = n }
}

// WithFirstStep fixes the size of the first adaptive step (0 ⇒ automatic).
// Fixed methods use it as the sub-step when no max step is set.
func WithFirstStep(h float64) Option {
	if !(h >= 0) || math.IsInf(h, 0) {
		panic(panicFirstInvalid)
	}
	return func(o *Options) { o.firstStep = h }
}

// WithMaxStep caps the magnitude of any single step (0 ⇒ unbounded).
func WithMaxStep(h float64) Option {
	if !(h >= 0) || math.IsInf(h, 0) {
		panic(panicMaxStepInvalid)
	}
	return func(o *Options) { o.maxStep = h }
}

// WithSafety sets the safety factor of the step controller.
func WithSafety(s float64) Option {
	if !(s > 0 && s <= 1) {
		panic(panicSafetyInvalid)
	}
	return func(o *Options) { o.safety = s }
}

// WithStepFactors bounds the ratio between consecutive steps to
// [dfactor, ifactor].
func WithStepFactors(dfactor, ifactor float64) Option {
	if !(dfactor > 0 && dfactor <= 1 && ifactor >= 1) || math.IsInf(ifactor, 0) {
		panic(panicFactorsInvalid)
	}
	return func(o *Options) { o.dfactor, o.ifactor = dfactor, ifactor }
}

// OptionsFromMap converts text configuration (rtol, atol, nsteps, first_step,
// max_step, safety, ifactor, dfactor) into Options. Keys are processed in
// sorted order so the result is deterministic.
func OptionsFromMap(kv map[string]float64) ([]Option, error) {
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var (
		opts             []Option
		dfactor, ifactor = DefaultDecreaseFactor, DefaultIncreaseFactor
		factors          bool
	)
	for _, key := range keys {
		v := kv[key]
		bad := func(rule string) error {
			return fmt.Errorf("%w: %s=%g (%s)", ErrInvalidOption, key, v, rule)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, bad("must be finite")
		}
		switch strings.ToLower(key) {
		case "rtol":
			if v <= 0 {
				return nil, bad("must be > 0")
			}
			opts = append(opts, WithRelTol(v))
		case "atol":
			if v < 0 {
				return nil, bad("must be >= 0")
			}
			opts = append(opts, WithAbsTol(v))
		case "nsteps":
			if v < 1 || v != math.Trunc(v) {
				return nil, bad("must be a positive integer")
			}
			opts = append(opts, WithMaxSteps(int(v)))
		case "first_step":
			if v < 0 {
				return nil, bad("must be >= 0")
			}
			opts = append(opts, WithFirstStep(v))
		case "max_step":
			if v < 0 {
				return nil, bad("must be >= 0")
			}
			opts = append(opts, WithMaxStep(v))
		case "safety":
			if v <= 0 || v > 1 {
				return nil, bad("must be in (0, 1]")
			}
			opts = append(opts, WithSafety(v))
		case "dfactor":
			if v <= 0 || v > 1 {
				return nil, bad("must be in (0, 1]")
			}
			dfactor, factors = v, true
		case "ifactor":
			if v < 1 {
				return nil, bad("must be >= 1")
			}
			ifactor, factors = v, true
		default:
			return nil, fmt.Errorf("%w: %q", ErrUnknownOption, key)
		}
	}
	if factors {
		opts = append(opts, WithStepFactors(dfactor, ifactor))
	}
	return opts, nil
}

func defaultOptions() Options {
	return Options{
		rtol:     DefaultRelTol,
		atol:     DefaultAbsTol,
		maxSteps: DefaultMaxSteps,
		safety:   DefaultSafety,
		ifactor:  DefaultIncreaseFactor,
		dfactor:  DefaultDecreaseFactor,
	}
}

func gatherOptions(opts ...Option) Options {
	o := defaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// RelTol returns the relative tolerance in effect.
func (o Options) RelTol() float64 { return o.rtol }

// AbsTol returns the absolute tolerance in effect.
func (o Options) AbsTol() float64 { return o.atol }

// MaxSteps returns the per-call step budget.
func (o Options) MaxSteps() int { return o.maxSteps }
