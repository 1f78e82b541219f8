package tree

import (
	"fmt"
	"reflect"

	"github.com/xlab/treeprint"
)

// Kind classifies a Structure node.
type Kind uint8

const (
	KindLeaf   Kind = iota // opaque value, no visible structure
	KindSlice              // built-in ordered container ([]any)
	KindMap                // built-in keyed container (map[string]any)
	KindCustom             // registered type
)

func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindSlice:
		return "slice"
	case KindMap:
		return "map"
	case KindCustom:
		return "custom"
	default:
		return "unknown"
	}
}

// Structure describes a value's shape with the leaf values removed: node
// kinds, registered types, per-level aux data and child order. Two values
// with equal Structures are interchangeable targets for the same leaf
// sequence.
type Structure struct {
	Kind     Kind
	Type     reflect.Type // concrete type, KindCustom only
	Aux      any          // aux data from the type's FlattenFunc
	Keys     []string     // sorted keys, KindMap only
	Children []*Structure
}

// NumLeaves returns the number of leaf positions beneath (and including)
// this node.
func (s *Structure) NumLeaves() int {
	if s.Kind == KindLeaf {
		return 1
	}
	n := 0
	for _, c := range s.Children {
		n += c.NumLeaves()
	}
	return n
}

// Equal reports whether two descriptors denote the same shape, comparing
// kinds, registered types, keys, aux data and children recursively.
func (s *Structure) Equal(o *Structure) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.Kind != o.Kind || s.Type != o.Type || len(s.Children) != len(o.Children) {
		return false
	}
	if len(s.Keys) != len(o.Keys) {
		return false
	}
	for i := range s.Keys {
		if s.Keys[i] != o.Keys[i] {
			return false
		}
	}
	if !reflect.DeepEqual(s.Aux, o.Aux) {
		return false
	}
	for i := range s.Children {
		if !s.Children[i].Equal(o.Children[i]) {
			return false
		}
	}
	return true
}

// Render returns a human-readable tree rendering of the descriptor, used
// for debugging and snapshot tests.
func (s *Structure) Render() string {
	tp := treeprint.New()
	s.render(tp)
	return tp.String()
}

func (s *Structure) render(parent treeprint.Tree) {
	switch s.Kind {
	case KindLeaf:
		parent.AddNode("leaf")
	case KindSlice, KindMap:
		branch := parent.AddBranch(s.Kind.String())
		for i, c := range s.Children {
			if s.Kind == KindMap {
				c.render(branch.AddBranch(s.Keys[i]))
				continue
			}
			c.render(branch)
		}
	case KindCustom:
		branch := parent.AddBranch(s.Type.String())
		for _, c := range s.Children {
			c.render(branch)
		}
	default:
		parent.AddNode(fmt.Sprintf("unknown(%d)", s.Kind))
	}
}
