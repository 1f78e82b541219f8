// Package tree implements the generic tree model underlying Foliate's
// parameter handling.
//
// The tree model classifies every value into a leaf or an internal node
// with children. Internal nodes are either built-in containers ([]any and
// map[string]any) or instances of types registered with this package.
// Flatten decomposes a value into an ordered leaf sequence plus a
// Structure descriptor; Unflatten is its exact inverse.
//
// Key components:
//   - Register / MustRegister: process-wide type registry, populated at init
//   - Flatten / Unflatten: mutual inverses over (leaves, Structure)
//   - Map: structure-preserving leaf transformation
//   - Structure: descriptor capturing every level's aux data and children
//
// All operations are pure; values are never mutated in place. The registry
// is append-only after program startup, so concurrent reads are safe.
package tree

import (
	"fmt"
	"sort"
)

// Flatten decomposes v into its ordered leaf sequence and a Structure
// descriptor. Registered types and the built-in containers []any and
// map[string]any are traversed recursively; every other value is an
// opaque leaf. Nil is a leaf too, including a typed nil pointer of a
// registered type. Map children are visited in sorted key order so the
// leaf sequence is deterministic.
func Flatten(v any) ([]any, *Structure) {
	var leaves []any
	s := flatten(v, &leaves)
	return leaves, s
}

func flatten(v any, leaves *[]any) *Structure {
	if reg, t, ok := lookupValue(v); ok {
		children, aux := reg.flatten(v)
		node := &Structure{Kind: KindCustom, Type: t, Aux: aux}
		node.Children = make([]*Structure, 0, len(children))
		for _, child := range children {
			node.Children = append(node.Children, flatten(child, leaves))
		}
		return node
	}

	switch val := v.(type) {
	case []any:
		node := &Structure{Kind: KindSlice}
		node.Children = make([]*Structure, 0, len(val))
		for _, child := range val {
			node.Children = append(node.Children, flatten(child, leaves))
		}
		return node
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		node := &Structure{Kind: KindMap, Keys: keys}
		node.Children = make([]*Structure, 0, len(keys))
		for _, k := range keys {
			node.Children = append(node.Children, flatten(val[k], leaves))
		}
		return node
	default:
		*leaves = append(*leaves, v)
		return &Structure{Kind: KindLeaf}
	}
}

// Unflatten reconstructs a value from a Structure descriptor and a flat
// leaf sequence. It consumes exactly as many leaves as the descriptor
// specifies; any surplus or deficit yields ErrStructureMismatch.
func Unflatten(s *Structure, leaves []any) (any, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil structure descriptor", ErrStructureMismatch)
	}
	cur := &leafCursor{leaves: leaves}
	v, err := unflatten(s, cur)
	if err != nil {
		return nil, err
	}
	if cur.pos != len(leaves) {
		return nil, fmt.Errorf("%w: %d leaves provided, %d consumed",
			ErrStructureMismatch, len(leaves), cur.pos)
	}
	return v, nil
}

type leafCursor struct {
	leaves []any
	pos    int
}

func (c *leafCursor) next() (any, error) {
	if c.pos >= len(c.leaves) {
		return nil, fmt.Errorf("%w: ran out of leaves at position %d",
			ErrStructureMismatch, c.pos)
	}
	v := c.leaves[c.pos]
	c.pos++
	return v, nil
}

func unflatten(s *Structure, cur *leafCursor) (any, error) {
	switch s.Kind {
	case KindLeaf:
		return cur.next()
	case KindSlice:
		out := make([]any, 0, len(s.Children))
		for _, child := range s.Children {
			v, err := unflatten(child, cur)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case KindMap:
		if len(s.Keys) != len(s.Children) {
			return nil, fmt.Errorf("%w: map node has %d keys but %d children",
				ErrStructureMismatch, len(s.Keys), len(s.Children))
		}
		out := make(map[string]any, len(s.Children))
		for i, child := range s.Children {
			v, err := unflatten(child, cur)
			if err != nil {
				return nil, err
			}
			out[s.Keys[i]] = v
		}
		return out, nil
	case KindCustom:
		reg, ok := lookupType(s.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %v", ErrNotRegistered, s.Type)
		}
		children := make([]any, 0, len(s.Children))
		for _, child := range s.Children {
			v, err := unflatten(child, cur)
			if err != nil {
				return nil, err
			}
			children = append(children, v)
		}
		return reg.unflatten(s.Aux, children)
	default:
		return nil, fmt.Errorf("%w: unknown node kind %d", ErrStructureMismatch, s.Kind)
	}
}

// Map applies fn to every leaf of v and reconstructs a value with the
// identical structure. fn must not change the leaf count (it operates on
// one leaf at a time, so it cannot).
func Map(fn func(leaf any) any, v any) (any, error) {
	leaves, s := Flatten(v)
	mapped := make([]any, len(leaves))
	for i, leaf := range leaves {
		mapped[i] = fn(leaf)
	}
	return Unflatten(s, mapped)
}
