package kernels

import (
	"github.com/foliate-ml/foliate/engine"
	"github.com/foliate-ml/foliate/param"
	"github.com/foliate-ml/foliate/tree"
)

var whiteSchema = param.MustSchema("white",
	param.ParamField("variance", 1.0, param.Softplus{}, true),
)

// White is the white-noise covariance: variance where x and y are the
// same point, zero everywhere else. "Same point" is value equality of the
// coordinate vectors. Since the covariance is zero off the diagonal, the
// default engine is diagonal.
type White struct {
	params *param.Record
	eng    engine.Engine
}

// NewWhite builds a white-noise kernel with variance=1 unless overridden.
func NewWhite(opts ...Option) (*White, error) {
	s := buildSettings(opts)
	r, err := buildRecord(whiteSchema, s)
	if err != nil {
		return nil, err
	}
	if s.engine == nil {
		s.engine = engine.NewDiagonal()
	}
	return &White{params: r, eng: s.engine}, nil
}

func (k *White) Eval(x, y []float64) float64 {
	if !samePoint(x, y) {
		return 0
	}
	return k.params.Float("variance")
}

func (k *White) Params() *param.Record { return k.params }

func (k *White) WithParams(r *param.Record) (Kernel, error) {
	if err := checkSchema(r, whiteSchema); err != nil {
		return nil, err
	}
	return &White{params: r, eng: k.eng}, nil
}

func (k *White) Engine() engine.Engine { return k.eng }

func (k *White) WithEngine(e engine.Engine) Kernel {
	return &White{params: k.params, eng: e}
}

func (k *White) Gram(xs [][]float64) (engine.Matrix, error) {
	return k.eng.Gram(k, xs)
}

func init() {
	tree.MustRegister(&White{},
		func(v any) ([]any, any) {
			k := v.(*White)
			return []any{k.params}, k.eng
		},
		func(aux any, children []any) (any, error) {
			r, eng, err := recordChild("white", aux, children)
			if err != nil {
				return nil, err
			}
			return &White{params: r, eng: eng}, nil
		},
	)
}
