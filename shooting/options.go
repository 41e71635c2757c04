// SPDX-License-Identifier: MIT

package shooting

import (
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/sortshoot/integrator"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultTolerance is the absolute tolerance shared by every boundary,
	// exhaustion and zero-surplus test.
	DefaultTolerance = 1e-6

	// DefaultKnots is the number of grid points spanning the worker domain.
	// The step per Integrate call is width/(knots-1).
	DefaultKnots = 100

	// DefaultMethod is the integration scheme.
	DefaultMethod = integrator.DefaultMethod

	// DefaultMaxBisections bounds the number of bracket narrowings.
	DefaultMaxBisections = 200
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicToleranceInvalid = "shooting: WithTolerance: tol must be finite and > 0"
	panicKnotsInvalid     = "shooting: WithKnots: need at least 2 knots"
	panicMethodEmpty      = "shooting: WithMethod: name must be non-empty"
	panicBisectionsZero   = "shooting: WithMaxBisections: n must be > 0"
)

// Option configures one Solve call. Constructors panic only on nonsensical
// values (programmer error).
type Option func(*Options)

// Options is the effective configuration of a Solve call.
type Options struct {
	tol           float64
	knots         int
	method        string
	methodOpts    []integrator.Option
	maxBisections int
	logger        *zap.Logger
	observer      Observer
}

// WithTolerance sets the absolute tolerance of the classifier. It should sit
// well above integration noise.
func WithTolerance(tol float64) Option {
	if !(tol > 0) || math.IsInf(tol, 0) {
		panic(panicToleranceInvalid)
	}
	return func(o *Options) { o.tol = tol }
}

// WithKnots sets the number of grid points.
func WithKnots(n int) Option {
	if n < 2 {
		panic(panicKnotsInvalid)
	}
	return func(o *Options) { o.knots = n }
}

// WithMethod selects the integration scheme by name. Unknown names are
// reported by Solve as integrator.ErrUnknownMethod.
func WithMethod(name string) Option {
	if name == "" {
		panic(panicMethodEmpty)
	}
	return func(o *Options) { o.method = name }
}

// WithMethodOptions passes options through to the integrator. Repeated use
// appends.
func WithMethodOptions(opts ...integrator.Option) Option {
	cp := append([]integrator.Option(nil), opts...)
	return func(o *Options) { o.methodOpts = append(o.methodOpts, cp...) }
}

// WithMaxBisections bounds the number of bracket narrowings.
func WithMaxBisections(n int) Option {
	if n <= 0 {
		panic(panicBisectionsZero)
	}
	return func(o *Options) { o.maxBisections = n }
}

// WithLogger sets the logger (nil ⇒ no-op).
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// WithObserver registers a hook that receives a report after every trial and
// at the end of the solve.
func WithObserver(obs Observer) Option {
	return func(o *Options) { o.observer = obs }
}

func gatherOptions(opts ...Option) Options {
	o := Options{
		tol:           DefaultTolerance,
		knots:         DefaultKnots,
		method:        DefaultMethod,
		maxBisections: DefaultMaxBisections,
		logger:        zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
