// Package kernels provides covariance functions built on Foliate's
// parameter records.
//
// A kernel couples three things: a parameter record declaring its fields
// (value domains and trainability), a pairwise evaluation over input
// points, and a compute engine deciding how gram matrices are
// materialized. Kernels are immutable; WithParams and WithEngine return
// fresh kernels.
//
// Available kernels:
//   - RBF: squared-exponential, lengthscale and variance
//   - White: white noise, zero off the diagonal
//   - Constant: constant value everywhere
//   - Sum: composite of two kernels
//
// Every kernel type registers with the tree package at init, so kernels
// flatten to their parameter leaves and reconstruct exactly, with the
// attached engine travelling as static aux data.
package kernels

import (
	"fmt"

	"github.com/foliate-ml/foliate/engine"
	"github.com/foliate-ml/foliate/param"
)

// Kernel is a covariance function with an attached compute engine.
type Kernel interface {
	engine.Covariance

	// Engine returns the attached compute engine.
	Engine() engine.Engine
	// WithEngine returns a copy of the kernel with a different engine.
	// Swapping engines changes only how Gram is materialized, never what
	// any entry means.
	WithEngine(engine.Engine) Kernel
	// Gram materializes the kernel's gram matrix over xs by delegating to
	// the attached engine.
	Gram(xs [][]float64) (engine.Matrix, error)
}

// ParamKernel is implemented by kernels backed by a single parameter
// record. Composite kernels (Sum) expose their children's records through
// tree flattening instead.
type ParamKernel interface {
	Kernel

	// Params returns the kernel's parameter record. Stored values live in
	// the constrained (domain) space; Unconstrain maps them to free space
	// for optimizers.
	Params() *param.Record
	// WithParams returns a copy of the kernel with a replacement record.
	// The record must conform to the kernel's schema.
	WithParams(*param.Record) (Kernel, error)
}

// Option configures a kernel constructor.
type Option func(*settings)

type settings struct {
	engine engine.Engine
	values map[string]float64
}

// WithEngine attaches a compute engine other than the kernel's default.
func WithEngine(e engine.Engine) Option {
	return func(s *settings) { s.engine = e }
}

// WithValue overrides the default of a named parameter field.
func WithValue(name string, v float64) Option {
	return func(s *settings) {
		if s.values == nil {
			s.values = make(map[string]float64)
		}
		s.values[name] = v
	}
}

func buildSettings(opts []Option) settings {
	var s settings
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// buildRecord instantiates a schema's defaults and applies option
// overrides.
func buildRecord(schema *param.Schema, s settings) (*param.Record, error) {
	r := param.New(schema)
	for name, v := range s.values {
		var err error
		if r, err = r.With(name, v); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func checkSchema(r *param.Record, want *param.Schema) error {
	if r == nil {
		return fmt.Errorf("kernels: nil parameter record")
	}
	if r.Schema() != want {
		return fmt.Errorf("kernels: record schema %q does not match kernel schema %q",
			r.Schema().TypeName(), want.TypeName())
	}
	return nil
}

// Interface conformance is checked at compile time.
var (
	_ ParamKernel = (*RBF)(nil)
	_ ParamKernel = (*White)(nil)
	_ ParamKernel = (*Constant)(nil)
	_ Kernel      = (*Sum)(nil)
)

func sqDist(x, y []float64) float64 {
	var s float64
	for i := range x {
		d := x[i] - y[i]
		s += d * d
	}
	return s
}

func samePoint(x, y []float64) bool {
	if len(x) != len(y) {
		return false
	}
	for i := range x {
		if x[i] != y[i] {
			return false
		}
	}
	return true
}
