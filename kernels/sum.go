package kernels

import (
	"errors"
	"fmt"

	"github.com/foliate-ml/foliate/engine"
	"github.com/foliate-ml/foliate/tree"
)

// Sum is the pointwise sum of two kernels. It carries no parameters of
// its own: flattening recurses into both children, so the composite's
// leaves are the children's leaves in left-then-right order. Default
// engine: dense (a sum is generally not diagonal even when one term is).
type Sum struct {
	left, right Kernel
	eng         engine.Engine
}

// NewSum combines two kernels.
func NewSum(left, right Kernel, opts ...Option) (*Sum, error) {
	if left == nil || right == nil {
		return nil, errors.New("kernels: sum needs two kernels")
	}
	s := buildSettings(opts)
	if s.values != nil {
		return nil, errors.New("kernels: sum has no parameter fields to override")
	}
	if s.engine == nil {
		s.engine = engine.NewDense()
	}
	return &Sum{left: left, right: right, eng: s.engine}, nil
}

// Left returns the first term.
func (k *Sum) Left() Kernel { return k.left }

// Right returns the second term.
func (k *Sum) Right() Kernel { return k.right }

func (k *Sum) Eval(x, y []float64) float64 {
	return k.left.Eval(x, y) + k.right.Eval(x, y)
}

func (k *Sum) Engine() engine.Engine { return k.eng }

func (k *Sum) WithEngine(e engine.Engine) Kernel {
	return &Sum{left: k.left, right: k.right, eng: e}
}

func (k *Sum) Gram(xs [][]float64) (engine.Matrix, error) {
	return k.eng.Gram(k, xs)
}

func init() {
	tree.MustRegister(&Sum{},
		func(v any) ([]any, any) {
			k := v.(*Sum)
			return []any{k.left, k.right}, k.eng
		},
		func(aux any, children []any) (any, error) {
			if len(children) != 2 {
				return nil, fmt.Errorf("%w: sum kernel wants 2 children, got %d",
					tree.ErrStructureMismatch, len(children))
			}
			left, ok := children[0].(Kernel)
			if !ok {
				return nil, fmt.Errorf("%w: sum left child is %T, not a kernel",
					tree.ErrStructureMismatch, children[0])
			}
			right, ok := children[1].(Kernel)
			if !ok {
				return nil, fmt.Errorf("%w: sum right child is %T, not a kernel",
					tree.ErrStructureMismatch, children[1])
			}
			eng, ok := aux.(engine.Engine)
			if !ok {
				return nil, fmt.Errorf("%w: sum aux data is %T, not an engine",
					tree.ErrStructureMismatch, aux)
			}
			return &Sum{left: left, right: right, eng: eng}, nil
		},
	)
}
