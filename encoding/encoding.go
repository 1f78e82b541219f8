// Package encoding provides a versioned snapshot codec for parameter
// trees.
//
// MarshalParams captures the parameter leaves of any tree-registered value
// as a YAML document; UnmarshalParams applies a snapshot onto a
// structurally identical value, producing a fresh value and leaving the
// target untouched. Only leaf values travel: schemas, static fields and
// engines stay with the target value, so a snapshot taken from one kernel
// can only be restored onto a kernel of the same shape.
//
// The codec works on byte slices; storage is the caller's concern.
package encoding

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/foliate-ml/foliate/tree"
)

// Version1 is the only snapshot format so far.
const Version1 = "params.v1"

var (
	// ErrVersion is returned for a snapshot with an unknown version tag.
	ErrVersion = errors.New("encoding: unsupported snapshot version")

	// ErrUnsupportedLeaf is returned when a leaf is neither float64 nor
	// []float64; other leaf kinds have no stable wire form here.
	ErrUnsupportedLeaf = errors.New("encoding: leaf is not float64 or []float64")
)

type snapshot struct {
	Version string      `yaml:"version"`
	Leaves  []leafEntry `yaml:"leaves"`
}

type leafEntry struct {
	Index  int       `yaml:"index"`
	Scalar *float64  `yaml:"scalar,omitempty"`
	Vector []float64 `yaml:"vector,omitempty,flow"`
}

// MarshalParams encodes the parameter leaves of v, in flatten order.
func MarshalParams(v any) ([]byte, error) {
	leaves, _ := tree.Flatten(v)
	s := snapshot{Version: Version1, Leaves: make([]leafEntry, 0, len(leaves))}
	for i, leaf := range leaves {
		entry := leafEntry{Index: i}
		switch lv := leaf.(type) {
		case float64:
			val := lv
			entry.Scalar = &val
		case []float64:
			entry.Vector = make([]float64, len(lv))
			copy(entry.Vector, lv)
		default:
			return nil, fmt.Errorf("%w: leaf %d holds %T", ErrUnsupportedLeaf, i, leaf)
		}
		s.Leaves = append(s.Leaves, entry)
	}
	return yaml.Marshal(&s)
}

// UnmarshalParams decodes a snapshot and returns a copy of v with its
// parameter leaves replaced by the snapshot's values. The snapshot's leaf
// count must match v's exactly.
func UnmarshalParams(v any, data []byte) (any, error) {
	var s snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("encoding: %w", err)
	}
	if s.Version != Version1 {
		return nil, fmt.Errorf("%w: %q", ErrVersion, s.Version)
	}

	leaves, structure := tree.Flatten(v)
	if len(s.Leaves) != len(leaves) {
		return nil, fmt.Errorf("%w: snapshot has %d leaves, value has %d",
			tree.ErrStructureMismatch, len(s.Leaves), len(leaves))
	}

	restored := make([]any, len(leaves))
	for i, entry := range s.Leaves {
		if entry.Index != i {
			return nil, fmt.Errorf("%w: snapshot leaf %d carries index %d",
				tree.ErrStructureMismatch, i, entry.Index)
		}
		switch {
		case entry.Scalar != nil:
			restored[i] = *entry.Scalar
		case entry.Vector != nil:
			vec := make([]float64, len(entry.Vector))
			copy(vec, entry.Vector)
			restored[i] = vec
		default:
			return nil, fmt.Errorf("%w: snapshot leaf %d is empty", ErrUnsupportedLeaf, i)
		}
	}
	return tree.Unflatten(structure, restored)
}
