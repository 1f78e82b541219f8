package param

import (
	"errors"
	"fmt"
)

// Field declares one named slot of a record: whether it is a parameter
// leaf or static auxiliary data, the bijector describing its value domain,
// whether optimizers may vary it, and its default value.
type Field struct {
	Name      string
	Param     bool
	Bijector  Bijector
	Trainable bool
	Default   any
}

// PlainField declares a parameter leaf with default metadata: identity
// transform, trainable.
func PlainField(name string, def float64) Field {
	return Field{Name: name, Param: true, Bijector: Identity{}, Trainable: true, Default: def}
}

// ParamField declares a parameter leaf with explicit metadata.
func ParamField(name string, def any, b Bijector, trainable bool) Field {
	if b == nil {
		b = Identity{}
	}
	return Field{Name: name, Param: true, Bijector: b, Trainable: trainable, Default: def}
}

// StaticField declares a non-parameter slot: auxiliary configuration that
// is invisible to flattening, transforms and optimizers.
func StaticField(name string, def any) Field {
	return Field{Name: name, Bijector: Identity{}, Default: def}
}

// Schema is the fixed ordered field set of a record type, declared once at
// type-definition time and immutable afterwards. Field order is the leaf
// order exposed by flattening.
type Schema struct {
	typeName string
	fields   []Field
	index    map[string]int
}

// NewSchema builds a schema from an ordered field list. Duplicate field
// names are an error; a nil bijector is normalized to Identity.
func NewSchema(typeName string, fields ...Field) (*Schema, error) {
	if typeName == "" {
		return nil, errors.New("param: schema needs a type name")
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("param: schema %q declares no fields", typeName)
	}
	s := &Schema{
		typeName: typeName,
		fields:   make([]Field, len(fields)),
		index:    make(map[string]int, len(fields)),
	}
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("param: schema %q has an unnamed field at position %d", typeName, i)
		}
		if _, dup := s.index[f.Name]; dup {
			return nil, fmt.Errorf("param: schema %q declares field %q twice", typeName, f.Name)
		}
		if f.Bijector == nil {
			f.Bijector = Identity{}
		}
		s.fields[i] = f
		s.index[f.Name] = i
	}
	return s, nil
}

// MustSchema is NewSchema for package-level declarations; it panics on error.
func MustSchema(typeName string, fields ...Field) *Schema {
	s, err := NewSchema(typeName, fields...)
	if err != nil {
		panic(err)
	}
	return s
}

// TypeName returns the name the schema was declared under.
func (s *Schema) TypeName() string { return s.typeName }

// Fields returns a copy of the declared field list.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Field returns the declaration of the named field.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// NumFields returns the number of declared fields.
func (s *Schema) NumFields() int { return len(s.fields) }

// NumParams returns the number of parameter-leaf fields.
func (s *Schema) NumParams() int {
	n := 0
	for _, f := range s.fields {
		if f.Param {
			n++
		}
	}
	return n
}
