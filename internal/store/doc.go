// Package store persists schema catalog snapshots in SQLite so compiled
// catalogs can be shipped between the catalog builder and analysis tools.
// The analysis core never touches the store; it only sees the immutable
// in-memory Schema a snapshot loads into.
package store
