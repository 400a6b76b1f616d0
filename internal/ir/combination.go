package ir

// Combination is the common surface of Disjunction and Conjunction: a
// set-based grouping of paths under any-of or all-of semantics. Member
// order is irrelevant and duplicates collapse; callers must collapse a
// singleton combination to its sole member instead of wrapping it.
type Combination interface {
	Node
	PathSet() NodeSet
	WithPaths(NodeSet) Combination
}

// Disjunction groups paths under any-of semantics.
type Disjunction struct {
	Paths NodeSet
}

// NewDisjunction builds a disjunction over the given paths.
func NewDisjunction(paths ...Node) *Disjunction {
	return &Disjunction{Paths: NewNodeSet(paths...)}
}

func (d *Disjunction) PathSet() NodeSet { return d.Paths }

// WithPaths builds a new combination of the same class.
func (d *Disjunction) WithPaths(paths NodeSet) Combination {
	return &Disjunction{Paths: paths}
}

// Conjunction groups paths under all-of semantics.
type Conjunction struct {
	Paths NodeSet
}

// NewConjunction builds a conjunction over the given paths.
func NewConjunction(paths ...Node) *Conjunction {
	return &Conjunction{Paths: NewNodeSet(paths...)}
}

func (c *Conjunction) PathSet() NodeSet { return c.Paths }

// WithPaths builds a new combination of the same class.
func (c *Conjunction) WithPaths(paths NodeSet) Combination {
	return &Conjunction{Paths: paths}
}

// SameClass reports whether a and b are both disjunctions or both
// conjunctions.
func SameClass(a, b Combination) bool {
	switch a.(type) {
	case *Disjunction:
		_, ok := b.(*Disjunction)
		return ok
	case *Conjunction:
		_, ok := b.(*Conjunction)
		return ok
	default:
		return false
	}
}

// FlattenCombination absorbs members that are themselves combinations of
// the same class into the parent's member set, in place. With recursive
// set, nested combinations are flattened first and members of either class
// are absorbed, collapsing the whole tree into one flat set. Returns its
// argument for chaining.
func FlattenCombination(c Combination, recursive bool) Combination {
	paths := c.PathSet()
	for _, member := range paths.Slice() {
		sub, ok := member.(Combination)
		if !ok {
			continue
		}
		if SameClass(c, sub) || recursive {
			if recursive {
				FlattenCombination(sub, true)
			}
			delete(paths, member)
			paths.Union(sub.PathSet())
		}
	}
	return c
}
