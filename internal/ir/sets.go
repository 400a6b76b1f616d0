package ir

import "sort"

// StringSet is an owned metadata set (users, rewrite flags). Every node
// owns its sets outright; copies must go through Clone, never aliasing.
type StringSet map[string]struct{}

// NewStringSet builds a set from the given members.
func NewStringSet(vals ...string) StringSet {
	s := make(StringSet, len(vals))
	for _, v := range vals {
		s[v] = struct{}{}
	}
	return s
}

// Add inserts a member.
func (s StringSet) Add(v string) { s[v] = struct{}{} }

// Contains reports membership.
func (s StringSet) Contains(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the member count.
func (s StringSet) Len() int { return len(s) }

// Clone returns an independent copy. A nil set clones to nil.
func (s StringSet) Clone() StringSet {
	if s == nil {
		return nil
	}
	out := make(StringSet, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

// Sorted returns the members in lexical order.
func (s StringSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// NodeSet is an identity set of IR nodes. Order is irrelevant and
// duplicates collapse; all node variants are pointers, so map keys compare
// by identity.
type NodeSet map[Node]struct{}

// NewNodeSet builds a set from the given nodes, skipping nils.
func NewNodeSet(nodes ...Node) NodeSet {
	s := make(NodeSet, len(nodes))
	for _, n := range nodes {
		if n != nil {
			s[n] = struct{}{}
		}
	}
	return s
}

// Add inserts a node.
func (s NodeSet) Add(n Node) { s[n] = struct{}{} }

// Contains reports membership.
func (s NodeSet) Contains(n Node) bool {
	_, ok := s[n]
	return ok
}

// Len returns the member count.
func (s NodeSet) Len() int { return len(s) }

// One returns an arbitrary member, or nil when empty.
func (s NodeSet) One() Node {
	for n := range s {
		return n
	}
	return nil
}

// Slice returns the members in unspecified order.
func (s NodeSet) Slice() []Node {
	out := make([]Node, 0, len(s))
	for n := range s {
		out = append(out, n)
	}
	return out
}

// Clone returns an independent copy. A nil set clones to nil.
func (s NodeSet) Clone() NodeSet {
	if s == nil {
		return nil
	}
	out := make(NodeSet, len(s))
	for n := range s {
		out[n] = struct{}{}
	}
	return out
}

// Union adds every member of other.
func (s NodeSet) Union(other NodeSet) {
	for n := range other {
		s[n] = struct{}{}
	}
}
