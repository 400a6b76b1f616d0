package ir

import "sort"

// PathIndex maps path identities to the set of IR nodes sharing that
// identity. Values are always sets: Put coerces a bare node into a
// singleton, and Update unions value sets on key collision instead of
// overwriting.
type PathIndex map[PathKey]NodeSet

// NewPathIndex creates an empty index.
func NewPathIndex() PathIndex { return make(PathIndex) }

// Put records a node under a path identity.
func (x PathIndex) Put(key PathKey, n Node) {
	if existing, ok := x[key]; ok {
		existing.Add(n)
		return
	}
	x[key] = NewNodeSet(n)
}

// PutSet records a full node set under a path identity, unioning with any
// existing entry.
func (x PathIndex) PutSet(key PathKey, nodes NodeSet) {
	if existing, ok := x[key]; ok {
		existing.Union(nodes)
		return
	}
	x[key] = nodes.Clone()
}

// Update merges another index: value sets of overlapping keys are unioned.
func (x PathIndex) Update(other PathIndex) {
	for key, nodes := range other {
		x.PutSet(key, nodes)
	}
}

// Keys returns the indexed identities in lexical order.
func (x PathIndex) Keys() []PathKey {
	out := make([]PathKey, 0, len(x))
	for k := range x {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
