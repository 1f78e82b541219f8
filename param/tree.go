package param

import (
	"fmt"

	"github.com/foliate-ml/foliate/tree"
)

// Records participate in the tree model with a fixed, documented split:
// leaves are the parameter-field values in declared order; aux data is the
// schema plus the static-field values, also in declared order. The split
// is stable for a given schema, which makes unflatten unambiguous.
func init() {
	tree.MustRegister(&Record{}, flattenRecord, unflattenRecord)
}

type recordAux struct {
	schema *Schema
	static []any
}

func flattenRecord(v any) ([]any, any) {
	r := v.(*Record)
	leaves := make([]any, 0, r.schema.NumParams())
	static := make([]any, 0, len(r.values)-r.schema.NumParams())
	for i, f := range r.schema.fields {
		if f.Param {
			leaves = append(leaves, r.values[i])
		} else {
			static = append(static, r.values[i])
		}
	}
	return leaves, recordAux{schema: r.schema, static: static}
}

func unflattenRecord(aux any, children []any) (any, error) {
	a, ok := aux.(recordAux)
	if !ok {
		return nil, fmt.Errorf("%w: record aux data is %T", tree.ErrStructureMismatch, aux)
	}
	if len(children) != a.schema.NumParams() {
		return nil, fmt.Errorf("%w: record %q wants %d parameter leaves, got %d",
			tree.ErrStructureMismatch, a.schema.typeName, a.schema.NumParams(), len(children))
	}
	values := make([]any, len(a.schema.fields))
	pi, si := 0, 0
	for i, f := range a.schema.fields {
		if f.Param {
			values[i] = children[pi]
			pi++
		} else {
			values[i] = a.static[si]
			si++
		}
	}
	return &Record{schema: a.schema, values: values}, nil
}
