// SPDX-License-Identifier: MIT

package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/katalvlaran/sortshoot/evaluator"
	"github.com/katalvlaran/sortshoot/integrator"
	"github.com/katalvlaran/sortshoot/shooting"
)

// DefaultNamespace prefixes every series.
const DefaultNamespace = "sortshoot"

const (
	resultSuccess = "success"
	resultFailed  = "failed"
)

// Collector counts trials and solves. It is safe for concurrent use.
type Collector struct {
	reg *prometheus.Registry

	trials     *prometheus.CounterVec
	steps      *prometheus.CounterVec
	solves     *prometheus.CounterVec
	duration   *prometheus.HistogramVec
	trialCount *prometheus.HistogramVec
}

var _ shooting.Observer = (*Collector)(nil)

// New builds a Collector registered on a fresh registry. An empty namespace
// means DefaultNamespace.
func New(namespace string) *Collector {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	c := &Collector{
		reg: prometheus.NewRegistry(),
		trials: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trials_total",
			Help:      "Bisection trials by outcome.",
		}, []string{"model", "verdict", "reason"}),
		steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "integrator_steps_total",
			Help:      "Integrator work by kind: accepted, rejected, evaluations, jacobians.",
		}, []string{"model", "kind"}),
		solves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "solves_total",
			Help:      "Finished solves by result.",
		}, []string{"model", "method", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_duration_seconds",
			Help:      "Wall time of a solve.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 10),
		}, []string{"model"}),
		trialCount: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "solve_trials",
			Help:      "Trials needed per solve.",
			Buckets:   []float64{1, 2, 5, 10, 20, 30, 50, 100, 200},
		}, []string{"model"}),
	}
	c.reg.MustRegister(c)
	return c
}

// Registry returns the Collector's own registry, for Gather, HTTP handlers or
// prometheus.WriteToTextfile.
func (c *Collector) Registry() *prometheus.Registry { return c.reg }

// WriteTextfile writes the current state in the text exposition format, for
// the node_exporter textfile collector.
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.reg)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.trials.Describe(ch)
	c.steps.Describe(ch)
	c.solves.Describe(ch)
	c.duration.Describe(ch)
	c.trialCount.Describe(ch)
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.trials.Collect(ch)
	c.steps.Collect(ch)
	c.solves.Collect(ch)
	c.duration.Collect(ch)
	c.trialCount.Collect(ch)
}

// ObserveTrial implements shooting.Observer.
func (c *Collector) ObserveTrial(tr shooting.TrialReport) {
	verdict, reason := tr.Outcome.Verdict.String(), tr.Outcome.Reason.String()
	if tr.Err != nil {
		verdict, reason = resultFailed, Reason(tr.Err)
	}
	c.trials.WithLabelValues(tr.Model, verdict, reason).Inc()

	st := tr.Stats
	c.steps.WithLabelValues(tr.Model, "accepted").Add(float64(st.Steps))
	c.steps.WithLabelValues(tr.Model, "rejected").Add(float64(st.Rejected))
	c.steps.WithLabelValues(tr.Model, "evaluations").Add(float64(st.Evaluations))
	c.steps.WithLabelValues(tr.Model, "jacobians").Add(float64(st.JacobianEvaluations))
}

// ObserveSolve implements shooting.Observer.
func (c *Collector) ObserveSolve(sr shooting.SolveReport) {
	result := resultSuccess
	if !sr.Success() {
		result = resultFailed
	}
	c.solves.WithLabelValues(sr.Model, sr.Method, result).Inc()
	c.duration.WithLabelValues(sr.Model).Observe(sr.Duration.Seconds())
	c.trialCount.WithLabelValues(sr.Model).Observe(float64(sr.Trials))
}

// Reason maps a solve error onto a short label value.
func Reason(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, shooting.ErrGuessUpperTooLow):
		return "guess_upper_too_low"
	case errors.Is(err, evaluator.ErrInfeasible):
		return "infeasible"
	case errors.Is(err, integrator.ErrTooManySteps):
		return "too_many_steps"
	case errors.Is(err, shooting.ErrIntegratorFailure):
		return "integrator_failure"
	case errors.Is(err, shooting.ErrNoConvergence):
		return "no_convergence"
	case errors.Is(err, shooting.ErrBracketCollapsed):
		return "bracket_collapsed"
	}
	return "other"
}
