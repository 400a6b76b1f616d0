// Package ir defines the intermediate representation consumed by semantic
// analysis: a closed node taxonomy over query expressions, the operator
// catalog, and the path-identity machinery (LinearPath, PathIndex, and the
// Disjunction/Conjunction path algebra).
//
// Node is a sealed interface: only types in this package implement it, and
// every dispatch site in the compiler switches exhaustively over the
// variants, treating an unknown variant as an internal error. IR trees are
// built once by the query compiler and are immutable during analysis; the
// only code that constructs new path nodes afterwards is the path copier,
// which never shares mutable state with its source.
package ir
