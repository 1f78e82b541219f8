package kernels

import (
	"fmt"

	"github.com/foliate-ml/foliate/engine"
	"github.com/foliate-ml/foliate/param"
	"github.com/foliate-ml/foliate/tree"
)

var constantSchema = param.MustSchema("constant",
	param.ParamField("value", 1.0, param.Identity{}, true),
)

// Constant evaluates to its value for every pair of points. Default
// engine: dense.
type Constant struct {
	params *param.Record
	eng    engine.Engine
}

// NewConstant builds a constant kernel with value=1 unless overridden.
func NewConstant(opts ...Option) (*Constant, error) {
	s := buildSettings(opts)
	r, err := buildRecord(constantSchema, s)
	if err != nil {
		return nil, err
	}
	if s.engine == nil {
		s.engine = engine.NewDense()
	}
	return &Constant{params: r, eng: s.engine}, nil
}

func (k *Constant) Eval(x, y []float64) float64 {
	return k.params.Float("value")
}

func (k *Constant) Params() *param.Record { return k.params }

func (k *Constant) WithParams(r *param.Record) (Kernel, error) {
	if err := checkSchema(r, constantSchema); err != nil {
		return nil, err
	}
	return &Constant{params: r, eng: k.eng}, nil
}

func (k *Constant) Engine() engine.Engine { return k.eng }

func (k *Constant) WithEngine(e engine.Engine) Kernel {
	return &Constant{params: k.params, eng: e}
}

func (k *Constant) Gram(xs [][]float64) (engine.Matrix, error) {
	return k.eng.Gram(k, xs)
}

// recordChild unpacks the single parameter-record child shared by all leaf
// kernel registrations.
func recordChild(name string, aux any, children []any) (*param.Record, engine.Engine, error) {
	if len(children) != 1 {
		return nil, nil, fmt.Errorf("%w: %s kernel wants 1 child, got %d",
			tree.ErrStructureMismatch, name, len(children))
	}
	r, ok := children[0].(*param.Record)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s kernel child is %T, not a parameter record",
			tree.ErrStructureMismatch, name, children[0])
	}
	eng, ok := aux.(engine.Engine)
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s kernel aux data is %T, not an engine",
			tree.ErrStructureMismatch, name, aux)
	}
	return r, eng, nil
}

func init() {
	tree.MustRegister(&Constant{},
		func(v any) ([]any, any) {
			k := v.(*Constant)
			return []any{k.params}, k.eng
		},
		func(aux any, children []any) (any, error) {
			r, eng, err := recordChild("constant", aux, children)
			if err != nil {
				return nil, err
			}
			return &Constant{params: r, eng: eng}, nil
		},
	)
}
