package tree

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Error taxonomy for the tree model. Errors are raised synchronously at
// the point of violation; operations are pure, so a repeated call with
// the same inputs fails the same way.
var (
	// ErrAlreadyRegistered is returned when a type is registered twice.
	// Registration is append-only configuration: overwriting would let a
	// late registration silently change the meaning of descriptors built
	// earlier, so duplicates are rejected.
	ErrAlreadyRegistered = errors.New("tree: type already registered")

	// ErrNotRegistered is returned when a descriptor references a type
	// absent from the registry.
	ErrNotRegistered = errors.New("tree: type not registered")

	// ErrStructureMismatch is returned when a leaf count or nesting shape
	// disagrees with a Structure descriptor during Unflatten.
	ErrStructureMismatch = errors.New("tree: structure mismatch")
)

// FlattenFunc decomposes a registered value into its ordered children and
// auxiliary (static) data. Children may themselves be registered values or
// built-in containers; Flatten recurses into them.
type FlattenFunc func(v any) (children []any, aux any)

// UnflattenFunc reconstructs a registered value from its aux data and the
// reconstructed children, in the order FlattenFunc produced them.
type UnflattenFunc func(aux any, children []any) (any, error)

type registration struct {
	flatten   FlattenFunc
	unflatten UnflattenFunc
}

var (
	regMu    sync.RWMutex
	registry = make(map[reflect.Type]registration)
)

// Register adds a (flatten, unflatten) pair for the concrete type of
// sample. Registration happens once per type, typically from the defining
// package's init; registering the same type twice returns
// ErrAlreadyRegistered.
func Register(sample any, fl FlattenFunc, un UnflattenFunc) error {
	if sample == nil {
		return errors.New("tree: cannot register nil sample")
	}
	if fl == nil || un == nil {
		return errors.New("tree: flatten and unflatten functions are required")
	}
	t := reflect.TypeOf(sample)

	regMu.Lock()
	defer regMu.Unlock()
	if _, dup := registry[t]; dup {
		return fmt.Errorf("%w: %v", ErrAlreadyRegistered, t)
	}
	registry[t] = registration{flatten: fl, unflatten: un}
	return nil
}

// MustRegister is Register for init-time use; it panics on error.
func MustRegister(sample any, fl FlattenFunc, un UnflattenFunc) {
	if err := Register(sample, fl, un); err != nil {
		panic(err)
	}
}

// Registered reports whether the concrete type of sample participates in
// tree traversal.
func Registered(sample any) bool {
	if sample == nil {
		return false
	}
	_, ok := lookupType(reflect.TypeOf(sample))
	return ok
}

func lookupValue(v any) (registration, reflect.Type, bool) {
	if v == nil {
		return registration{}, nil, false
	}
	t := reflect.TypeOf(v)
	// A typed nil pointer has no children to traverse; it stays an opaque
	// leaf so registered flatten funcs never see a nil receiver.
	if t.Kind() == reflect.Pointer && reflect.ValueOf(v).IsNil() {
		return registration{}, nil, false
	}
	reg, ok := lookupType(t)
	return reg, t, ok
}

func lookupType(t reflect.Type) (registration, bool) {
	regMu.RLock()
	defer regMu.RUnlock()
	reg, ok := registry[t]
	return reg, ok
}
