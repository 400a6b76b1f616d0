// Package schema models the read-only type catalog consulted by semantic
// analysis: atoms (scalars), concepts (object types), links (edges and
// properties), collection types, the operator type-rule table, and
// ancestor resolution over the inheritance graph.
//
// A Schema is an immutable snapshot for the duration of an analysis pass.
// The analysis core only reads from it; mutation (registration) happens
// while a catalog is being built, before any analysis starts. Callers own
// the exclusion contract: no registration may run concurrently with
// analysis.
package schema
