// SPDX-License-Identifier: MIT

package sweep

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/sortshoot/model"
	"github.com/katalvlaran/sortshoot/shooting"
)

// ErrNilModel signals a nil base model.
var ErrNilModel = errors.New("sweep: nil model")

// Result is the outcome of one job. Exactly one of Result and Err is set;
// Model is the base model with Point applied, nil if that failed.
type Result struct {
	Index  int
	Point  Point
	Model  *model.Model
	Result *shooting.Result
	Err    error
}

// Option configures Run.
type Option func(*options)

type options struct {
	concurrency int
	failFast    bool
	solveOpts   []shooting.Option
	logger      *zap.Logger
}

// WithConcurrency bounds the number of solves in flight (default GOMAXPROCS).
func WithConcurrency(n int) Option {
	if n <= 0 {
		panic("sweep: WithConcurrency: n must be > 0")
	}
	return func(o *options) { o.concurrency = n }
}

// WithFailFast cancels the remaining jobs after the first failure.
func WithFailFast(on bool) Option {
	return func(o *options) { o.failFast = on }
}

// WithSolveOptions is passed to every Solve call. Observers given here are
// shared across goroutines.
func WithSolveOptions(opts ...shooting.Option) Option {
	cp := append([]shooting.Option(nil), opts...)
	return func(o *options) { o.solveOpts = append(o.solveOpts, cp...) }
}

// WithLogger sets the sweep logger (nil ⇒ no-op). Solves log through it too
// unless WithSolveOptions sets another.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = zap.NewNop()
		}
		o.logger = l
	}
}

// Run solves m once per point with guessUpper as the bracket ceiling. The
// returned slice is index-aligned with points; jobs skipped after
// cancellation carry the context error. The error is ctx's error when the
// sweep was cancelled, the first job error under WithFailFast, nil otherwise.
func Run(ctx context.Context, m *model.Model, guessUpper float64, points []Point, opts ...Option) ([]Result, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	o := options{concurrency: runtime.GOMAXPROCS(0), logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	solveOpts := append([]shooting.Option{shooting.WithLogger(o.logger)}, o.solveOpts...)

	results := make([]Result, len(points))
	for i, p := range points {
		results[i] = Result{Index: i, Point: p}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	started := 0
	for i := range points {
		if gctx.Err() != nil {
			break
		}
		started++
		g.Go(func() error {
			r := &results[i]
			if err := gctx.Err(); err != nil {
				r.Err = err
				return nil
			}
			r.Model, r.Result, r.Err = solveOne(m, r.Point, guessUpper, solveOpts)
			if r.Err != nil {
				o.logger.Debug("sweep job failed", zap.Int("index", i), zap.Stringer("point", r.Point), zap.Error(r.Err))
				if o.failFast {
					return fmt.Errorf("sweep: job %d (%s): %w", i, r.Point, r.Err)
				}
			}
			return nil
		})
	}
	err := g.Wait()

	for i := started; i < len(results); i++ {
		results[i].Err = context.Cause(gctx)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return results, ctxErr
	}
	if err == nil {
		o.logger.Info("sweep finished", zap.Int("jobs", len(points)), zap.Int("failed", countFailed(results)))
	}
	return results, err
}

func solveOne(base *model.Model, p Point, guessUpper float64, opts []shooting.Option) (*model.Model, *shooting.Result, error) {
	m, err := p.apply(base)
	if err != nil {
		return nil, nil, err
	}
	solver, err := shooting.New(m)
	if err != nil {
		return m, nil, err
	}
	res, err := solver.Solve(guessUpper, opts...)
	return m, res, err
}

func countFailed(rs []Result) int {
	n := 0
	for _, r := range rs {
		if r.Err != nil {
			n++
		}
	}
	return n
}
