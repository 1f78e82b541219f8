// Package foliate implements an immutable parameter-tree model for
// structured machine-learning code.
//
// Foliate carries three cooperating ideas: a generic tree model that
// flattens any registered value into (leaves, structure) and back, a
// structured parameter record whose fields declare their value domains and
// trainability, and swappable compute engines that decide how pairwise
// covariance evaluations are materialized into structured matrices.
//
// # Architecture Overview
//
// The library consists of four small packages plus a codec:
//
//   - tree: process-wide type registry, Flatten/Unflatten/Map, Structure descriptors
//   - param: Schema/Record with per-field bijectors and trainable flags
//   - kernels: covariance functions (RBF, White, Constant, Sum) built on records
//   - engine: Dense and Diagonal gram strategies returning tagged Matrix variants
//   - encoding: versioned YAML snapshots of a value's parameter leaves
//
// # Design Principles
//
// Everything is a pure function over immutable values:
//
//   - Records and kernels are never mutated; updates return fresh values
//   - Flatten and Unflatten are exact mutual inverses
//   - Constrain and Unconstrain round-trip through each field's bijector
//   - Every engine agrees entry-for-entry with the dense engine
//
// # Basic Usage
//
//	k, err := kernels.NewRBF(kernels.WithValue("lengthscale", 2.0))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Materialize a gram matrix over three scalar inputs.
//	gram, err := k.Gram([][]float64{{1}, {2}, {3}})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(gram.Render())
//
//	// Flatten to leaves, update them, reconstruct.
//	leaves, structure := tree.Flatten(k)
//	_ = leaves
//	updated, _ := tree.Unflatten(structure, []any{2.0, 1.5})
//	_ = updated
//
// # Package Structure
//
//   - tree: tree model registration and traversal
//   - param: bijectors, field schemas, immutable records
//   - kernels: covariance kernels and composition
//   - engine: gram materialization strategies
//   - encoding: parameter snapshot codec
//
// For more information, see the package documentation of each subpackage.
package foliate
