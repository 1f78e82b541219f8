package kernels

import (
	"math"

	"github.com/foliate-ml/foliate/engine"
	"github.com/foliate-ml/foliate/param"
	"github.com/foliate-ml/foliate/tree"
)

var rbfSchema = param.MustSchema("rbf",
	param.ParamField("lengthscale", 1.0, param.Softplus{}, true),
	param.ParamField("variance", 1.0, param.Softplus{}, true),
)

// RBF is the squared-exponential covariance
//
//	k(x, y) = variance * exp(-||x-y||^2 / (2 * lengthscale^2))
//
// Both fields are softplus-constrained positive and trainable. Default
// engine: dense.
type RBF struct {
	params *param.Record
	eng    engine.Engine
}

// NewRBF builds an RBF kernel with lengthscale=1, variance=1 unless
// overridden via WithValue.
func NewRBF(opts ...Option) (*RBF, error) {
	s := buildSettings(opts)
	r, err := buildRecord(rbfSchema, s)
	if err != nil {
		return nil, err
	}
	if s.engine == nil {
		s.engine = engine.NewDense()
	}
	return &RBF{params: r, eng: s.engine}, nil
}

func (k *RBF) Eval(x, y []float64) float64 {
	ell := k.params.Float("lengthscale")
	return k.params.Float("variance") * math.Exp(-sqDist(x, y)/(2*ell*ell))
}

func (k *RBF) Params() *param.Record { return k.params }

func (k *RBF) WithParams(r *param.Record) (Kernel, error) {
	if err := checkSchema(r, rbfSchema); err != nil {
		return nil, err
	}
	return &RBF{params: r, eng: k.eng}, nil
}

func (k *RBF) Engine() engine.Engine { return k.eng }

func (k *RBF) WithEngine(e engine.Engine) Kernel {
	return &RBF{params: k.params, eng: e}
}

func (k *RBF) Gram(xs [][]float64) (engine.Matrix, error) {
	return k.eng.Gram(k, xs)
}

func init() {
	tree.MustRegister(&RBF{},
		func(v any) ([]any, any) {
			k := v.(*RBF)
			return []any{k.params}, k.eng
		},
		func(aux any, children []any) (any, error) {
			r, eng, err := recordChild("rbf", aux, children)
			if err != nil {
				return nil, err
			}
			return &RBF{params: r, eng: eng}, nil
		},
	)
}
