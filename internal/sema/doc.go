// Package sema is the semantic-analysis core of the query compiler. Given
// an immutable IR tree and a read-only schema catalog it infers expression
// types, extracts and normalizes the graph traversal paths an expression
// depends on, indexes shared path prefixes, and produces independent
// structural copies of path chains for rewriting.
//
// All operations are pure, synchronous tree recursions. Independent IR
// trees may be analyzed concurrently as long as the schema snapshot is not
// mutated while any analysis is in flight.
package sema
