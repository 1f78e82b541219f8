// Package engine implements Foliate's swappable gram-computation strategies.
//
// An Engine decides how the pairwise evaluations of a covariance function
// over an input set are materialized, never what they compute. The dense
// engine evaluates every pair and is always correct; the diagonal engine
// evaluates only the diagonal and relies on the caller attaching it to
// covariance functions that are zero off the diagonal. Every engine must
// agree with the dense engine entry-for-entry after ToDense.
//
// Engines are stateless and safe for concurrent use. The dense engine can
// shard rows across a configured worker count; entries are independent, so
// the result is identical under any evaluation order.
package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

var (
	// ErrNoInputs is returned for an empty input set.
	ErrNoInputs = errors.New("engine: empty input set")

	// ErrDimensionMismatch is returned when input points disagree in length.
	ErrDimensionMismatch = errors.New("engine: input points have mismatched dimensions")
)

// Covariance is a pairwise evaluation over input points. Kernels implement
// it; engines consume it.
type Covariance interface {
	Eval(x, y []float64) float64
}

// Engine materializes the gram matrix of a covariance function over an
// ordered input set.
type Engine interface {
	Name() string
	Gram(cov Covariance, xs [][]float64) (Matrix, error)
}

// Option configures an engine.
type Option func(*config)

type config struct {
	workers int
	logger  *slog.Logger
}

// WithWorkers sets the number of goroutines the dense engine shards rows
// across. Values below two keep evaluation on the calling goroutine.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithLogger attaches a structured logger; engines log at debug level only.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

func buildConfig(opts []Option) config {
	var c config
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func (c config) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}

func checkInputs(xs [][]float64) error {
	if len(xs) == 0 {
		return ErrNoInputs
	}
	dim := len(xs[0])
	for i, x := range xs[1:] {
		if len(x) != dim {
			return fmt.Errorf("%w: point 0 has %d dimensions, point %d has %d",
				ErrDimensionMismatch, dim, i+1, len(x))
		}
	}
	return nil
}

var (
	_ Engine = (*DenseEngine)(nil)
	_ Engine = (*DiagonalEngine)(nil)
)

// DenseEngine evaluates every pair (i, j): O(n^2) evaluations, correct for
// any covariance function, and the fallback every other engine is measured
// against.
type DenseEngine struct {
	cfg config
}

// NewDense constructs a dense engine.
func NewDense(opts ...Option) *DenseEngine {
	return &DenseEngine{cfg: buildConfig(opts)}
}

func (e *DenseEngine) Name() string { return "dense" }

func (e *DenseEngine) Gram(cov Covariance, xs [][]float64) (Matrix, error) {
	if err := checkInputs(xs); err != nil {
		return nil, err
	}
	n := len(xs)
	e.cfg.debug("materializing dense gram", "n", n, "workers", e.cfg.workers)
	out := NewDenseMatrix(n, n)
	if e.cfg.workers < 2 || n < 2 {
		fillRows(out, cov, xs, 0, n)
		return out, nil
	}

	workers := e.cfg.workers
	if workers > n {
		workers = n
	}
	chunk := (n + workers - 1) / workers
	var wg sync.WaitGroup
	for lo := 0; lo < n; lo += chunk {
		hi := lo + chunk
		if hi > n {
			hi = n
		}
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fillRows(out, cov, xs, lo, hi)
		}(lo, hi)
	}
	wg.Wait()
	return out, nil
}

// fillRows evaluates rows [lo, hi). Workers write disjoint rows, so no
// synchronization beyond the WaitGroup is needed.
func fillRows(out *Dense, cov Covariance, xs [][]float64, lo, hi int) {
	n := len(xs)
	for i := lo; i < hi; i++ {
		for j := 0; j < n; j++ {
			out.set(i, j, cov.Eval(xs[i], xs[j]))
		}
	}
}

// DiagonalEngine evaluates cov(x_i, x_i) only: O(n) evaluations. It is
// exact solely for covariance functions that are zero off the diagonal;
// that precondition is the caller's responsibility and is not checked
// here.
type DiagonalEngine struct {
	cfg config
}

// NewDiagonal constructs a diagonal engine.
func NewDiagonal(opts ...Option) *DiagonalEngine {
	return &DiagonalEngine{cfg: buildConfig(opts)}
}

func (e *DiagonalEngine) Name() string { return "diagonal" }

func (e *DiagonalEngine) Gram(cov Covariance, xs [][]float64) (Matrix, error) {
	if err := checkInputs(xs); err != nil {
		return nil, err
	}
	e.cfg.debug("materializing diagonal gram", "n", len(xs))
	diag := make([]float64, len(xs))
	for i, x := range xs {
		diag[i] = cov.Eval(x, x)
	}
	return &Diagonal{diag: diag}, nil
}

// CrossCov materializes the dense cross-covariance between two input sets:
// out[i][j] = cov(xs[i], ys[j]). Both sets must be non-empty and share the
// point dimension.
func CrossCov(cov Covariance, xs, ys [][]float64) (*Dense, error) {
	if err := checkInputs(xs); err != nil {
		return nil, err
	}
	if err := checkInputs(ys); err != nil {
		return nil, err
	}
	if len(xs[0]) != len(ys[0]) {
		return nil, fmt.Errorf("%w: first set has %d dimensions, second has %d",
			ErrDimensionMismatch, len(xs[0]), len(ys[0]))
	}
	out := NewDenseMatrix(len(xs), len(ys))
	for i, x := range xs {
		for j, y := range ys {
			out.set(i, j, cov.Eval(x, y))
		}
	}
	return out, nil
}
