// SPDX-License-Identifier: MIT

package model

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicVariableEmpty = "model: WithVariable: name must be non-empty"
	panicParamsNil     = "model: WithParams: map must be non-nil"
)

// Option configures New. Options are applied in order; the last writer wins.
// Constructors panic only on nonsensical arguments (programmer error);
// data problems such as NaN parameter values are reported by New as errors.
type Option func(*options)

type options struct {
	name     string
	variable string
	params   map[string]float64
}

// WithName attaches a human-readable name (used in logs and stored runs).
func WithName(name string) Option {
	return func(o *options) { o.name = name }
}

// WithVariable renames the independent variable (default "x").
func WithVariable(name string) Option {
	if name == "" {
		panic(panicVariableEmpty)
	}
	return func(o *options) { o.variable = name }
}

// WithParams merges params into the parameter set.
func WithParams(params map[string]float64) Option {
	if params == nil {
		panic(panicParamsNil)
	}
	cp := make(map[string]float64, len(params))
	for k, v := range params {
		cp[k] = v
	}
	return func(o *options) {
		for k, v := range cp {
			o.params[k] = v
		}
	}
}

// WithParam sets one parameter.
func WithParam(name string, v float64) Option {
	return func(o *options) { o.params[name] = v }
}

func gatherOptions(opts ...Option) options {
	o := options{variable: DefaultVariable, params: map[string]float64{}}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}
