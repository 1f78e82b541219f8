// Package param implements Foliate's structured parameter records.
//
// A Record is an immutable value container over a Schema: a fixed ordered
// set of named fields, each declared either a parameter leaf (with a
// domain bijector and a trainable flag) or static auxiliary data. Records
// integrate with the tree package so that parameter fields flatten to
// leaves while the schema and static fields travel as aux data.
//
// Key operations:
//   - With: functional update, never in-place mutation
//   - Trainables / Transforms: per-leaf metadata in record shape
//   - Constrain / Unconstrain: bijector forward/inverse over every leaf
//   - Step: transform trainable leaves only, non-trainables pass through
//     bit-identical
//
// Field values are not range-checked at construction; bijectors are
// applied lazily when Constrain or Unconstrain runs. Callers own domain
// validity.
package param

import (
	"errors"
	"fmt"
	"reflect"
)

// ErrLeafKind is returned when a transform touches a parameter leaf that
// is neither float64 nor []float64.
var ErrLeafKind = errors.New("param: parameter leaf is not float64 or []float64")

// Record is an immutable set of field values conforming to a Schema.
// "Mutation" is expressed with With, Constrain, Unconstrain and Step, all
// of which return fresh records.
type Record struct {
	schema *Schema
	values []any
}

// New constructs a record holding every field's declared default.
func New(schema *Schema) *Record {
	values := make([]any, len(schema.fields))
	for i, f := range schema.fields {
		values[i] = f.Default
	}
	return &Record{schema: schema, values: values}
}

// Schema returns the record's schema.
func (r *Record) Schema() *Schema { return r.schema }

// Get returns the value of the named field.
func (r *Record) Get(name string) (any, bool) {
	i, ok := r.schema.index[name]
	if !ok {
		return nil, false
	}
	return r.values[i], true
}

// Float returns the float64 value of the named field. It panics if the
// field does not exist or holds a different kind; record owners declare
// their own schemas, so a failure here is a programming error.
func (r *Record) Float(name string) float64 {
	v, ok := r.Get(name)
	if !ok {
		panic(fmt.Sprintf("param: record %q has no field %q", r.schema.typeName, name))
	}
	f, ok := v.(float64)
	if !ok {
		panic(fmt.Sprintf("param: field %q of record %q holds %T, not float64",
			name, r.schema.typeName, v))
	}
	return f
}

// With returns a new record with the named field replaced. The receiver is
// untouched.
func (r *Record) With(name string, value any) (*Record, error) {
	i, ok := r.schema.index[name]
	if !ok {
		return nil, fmt.Errorf("param: record %q has no field %q", r.schema.typeName, name)
	}
	values := make([]any, len(r.values))
	copy(values, r.values)
	values[i] = value
	return &Record{schema: r.schema, values: values}, nil
}

// Leaves returns the parameter-field values in declared order, the same
// order tree.Flatten exposes them.
func (r *Record) Leaves() []any {
	out := make([]any, 0, r.schema.NumParams())
	for i, f := range r.schema.fields {
		if f.Param {
			out = append(out, r.values[i])
		}
	}
	return out
}

// Trainables returns a record isomorphic to the receiver where every
// parameter position holds its trainable flag and every static position
// holds nil.
func (r *Record) Trainables() *Record {
	values := make([]any, len(r.values))
	for i, f := range r.schema.fields {
		if f.Param {
			values[i] = f.Trainable
		}
	}
	return &Record{schema: r.schema, values: values}
}

// Transforms returns a record isomorphic to the receiver where every
// parameter position holds its bijector and every static position holds
// nil.
func (r *Record) Transforms() *Record {
	values := make([]any, len(r.values))
	for i, f := range r.schema.fields {
		if f.Param {
			values[i] = f.Bijector
		}
	}
	return &Record{schema: r.schema, values: values}
}

// TrainableMap returns field name -> trainable flag for parameter fields.
func (r *Record) TrainableMap() map[string]bool {
	out := make(map[string]bool, r.schema.NumParams())
	for _, f := range r.schema.fields {
		if f.Param {
			out[f.Name] = f.Trainable
		}
	}
	return out
}

// TransformMap returns field name -> bijector for parameter fields.
func (r *Record) TransformMap() map[string]Bijector {
	out := make(map[string]Bijector, r.schema.NumParams())
	for _, f := range r.schema.fields {
		if f.Param {
			out[f.Name] = f.Bijector
		}
	}
	return out
}

// Constrain maps every parameter leaf through its bijector's forward
// direction (unconstrained -> constrained space).
func (r *Record) Constrain() (*Record, error) {
	return r.mapParams(func(f Field, x float64) float64 { return f.Bijector.Forward(x) }, false)
}

// Unconstrain maps every parameter leaf through its bijector's inverse
// (constrained -> unconstrained space). Constrain and Unconstrain are
// exact inverses for values inside the bijector's range.
func (r *Record) Unconstrain() (*Record, error) {
	return r.mapParams(func(f Field, x float64) float64 { return f.Bijector.Inverse(x) }, false)
}

// Step applies fn to every trainable parameter leaf and passes
// non-trainable leaves through untouched (the same value, bit-identical).
// This is the hook optimization code uses to update free parameters only.
func (r *Record) Step(fn func(f Field, x float64) float64) (*Record, error) {
	return r.mapParams(fn, true)
}

// mapParams applies a scalar transform to parameter leaves, elementwise
// over []float64 leaves. With trainableOnly set, non-trainable leaves keep
// their exact original value.
func (r *Record) mapParams(fn func(f Field, x float64) float64, trainableOnly bool) (*Record, error) {
	values := make([]any, len(r.values))
	copy(values, r.values)
	for i, f := range r.schema.fields {
		if !f.Param {
			continue
		}
		if trainableOnly && !f.Trainable {
			continue
		}
		switch v := r.values[i].(type) {
		case float64:
			values[i] = fn(f, v)
		case []float64:
			mapped := make([]float64, len(v))
			for j, x := range v {
				mapped[j] = fn(f, x)
			}
			values[i] = mapped
		default:
			return nil, fmt.Errorf("%w: field %q of record %q holds %T",
				ErrLeafKind, f.Name, r.schema.typeName, r.values[i])
		}
	}
	return &Record{schema: r.schema, values: values}, nil
}

// Equal reports whether two records share the same schema and hold equal
// values.
func (r *Record) Equal(o *Record) bool {
	if r == nil || o == nil {
		return r == o
	}
	return r.schema == o.schema && reflect.DeepEqual(r.values, o.values)
}
