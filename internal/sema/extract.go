package sema

import "github.com/quernlang/quern/internal/ir"

// ExtractOptions configures a path extraction pass.
type ExtractOptions struct {
	// Reverse walks toward path roots instead of leaves.
	Reverse bool

	// ResolveRefs dereferences atomic, link-property, and inline-filter
	// wrappers to their underlying path instead of stopping at them.
	ResolveRefs bool

	// SubqueryBudget is the remaining nested-query depth to descend into.
	// Zero or less means nested queries contribute nothing.
	SubqueryBudget int

	// AllFragments, in reverse mode, combines every branch root found
	// instead of picking the outermost one alone.
	AllFragments bool

	// CaptureSubgraphRefs returns a subquery reference node itself when
	// the budget is exhausted, instead of recursing into it.
	CaptureSubgraphRefs bool
}

// ExtractPaths reduces an expression to the set of graph paths it
// references: a single path node, a Disjunction/Conjunction over paths, or
// nil when the expression touches no paths.
func ExtractPaths(n ir.Node, opts ExtractOptions) ir.Node {
	x := &pathExtractor{opts: opts, visited: make(map[ir.Node]struct{})}
	return x.visit(n, opts.SubqueryBudget)
}

type pathExtractor struct {
	opts    ExtractOptions
	visited map[ir.Node]struct{}
}

// visit walks one node. The remaining subquery budget is threaded through
// explicitly rather than mutated on the extractor, so a pass stays
// reentrant per subtree.
func (x *pathExtractor) visit(n ir.Node, budget int) ir.Node {
	if n == nil {
		return nil
	}
	if _, seen := x.visited[n]; seen {
		// Shared subtree: already contributed in this traversal.
		return nil
	}
	x.visited[n] = struct{}{}

	switch n := n.(type) {
	case *ir.GraphExpr:
		if budget <= 0 {
			return nil
		}
		inner := budget - 1
		var results []ir.Node
		results = append(results, x.visit(n.Generator, inner))
		for _, sel := range n.Selector {
			results = append(results, x.visit(sel.Expr, inner))
		}
		for _, g := range n.Grouper {
			results = append(results, x.visit(g, inner))
		}
		for _, srt := range n.Sorter {
			results = append(results, x.visit(srt.Expr, inner))
		}
		if n.SetOp != "" {
			results = append(results, x.visit(n.SetOpLArg, inner))
			results = append(results, x.visit(n.SetOpRArg, inner))
		}
		return combine(results, disjunctionOf, true)

	case *ir.SubgraphRef:
		if budget == 0 && x.opts.CaptureSubgraphRefs {
			return n
		}
		return x.visit(n.Ref, budget)

	case *ir.EntitySet:
		if !x.opts.Reverse {
			return n
		}
		fragments := []ir.Node{n}
		result := n
		for result.RLink != nil && result.RLink.Source != nil {
			result = result.RLink.Source
			fragments = append(fragments, result)
		}
		if len(fragments) == 1 || !x.opts.AllFragments {
			return result
		}
		return ir.NewDisjunction(fragments...)

	case *ir.AtomicRefSimple:
		return x.visitWrapper(n, n.Ref, budget)
	case *ir.AtomicRefExpr:
		return x.visitWrapper(n, n.Ref, budget)
	case *ir.LinkPropRefSimple:
		return x.visitWrapper(n, n.Ref, budget)
	case *ir.LinkPropRefExpr:
		return x.visitWrapper(n, n.Ref, budget)
	case *ir.InlineFilter:
		return x.visitWrapper(n, n.Ref, budget)
	case *ir.InlinePropFilter:
		return x.visitWrapper(n, n.Ref, budget)

	case *ir.EntityLink:
		if x.opts.Reverse && n.Source != nil {
			root := n.Source
			for root.RLink != nil && root.RLink.Source != nil {
				root = root.RLink.Source
			}
			return root
		}
		return n

	case *ir.Disjunction:
		return x.visitMembers(n, budget, disjunctionOf, true)
	case *ir.Conjunction:
		return x.visitMembers(n, budget, conjunctionOf, true)

	case *ir.BinOp:
		results := []ir.Node{x.visit(n.Left, budget), x.visit(n.Right, budget)}
		if ir.IsWeakOp(n.Op) {
			return combine(results, disjunctionOf, true)
		}
		return combine(results, conjunctionOf, true)

	case *ir.FunctionCall:
		var results []ir.Node
		for _, arg := range n.Args {
			results = append(results, x.visit(arg, budget))
		}
		for _, srt := range n.AggSort {
			results = append(results, x.visit(srt.Expr, budget))
		}
		if n.AggFilter != nil {
			results = append(results, x.visit(n.AggFilter, budget))
		}
		for _, p := range n.Partition {
			results = append(results, x.visit(p, budget))
		}
		// Each argument's contribution stays distinguishable.
		return combine(results, conjunctionOf, false)

	default:
		var results []ir.Node
		for _, child := range ir.ChildNodes(n) {
			results = append(results, x.visit(child, budget))
		}
		return combine(results, disjunctionOf, true)
	}
}

// visitWrapper handles reference and filter wrappers: resolved through (or
// reversed past) to the wrapped path, otherwise returned unchanged.
func (x *pathExtractor) visitWrapper(n, ref ir.Node, budget int) ir.Node {
	if x.opts.ResolveRefs || x.opts.Reverse {
		return x.visit(ref, budget)
	}
	return n
}

func (x *pathExtractor) visitMembers(c ir.Combination, budget int, ctor combinationCtor, flatten bool) ir.Node {
	var results []ir.Node
	for _, member := range c.PathSet().Slice() {
		results = append(results, x.visit(member, budget))
	}
	return combine(results, ctor, flatten)
}

type combinationCtor func(ir.NodeSet) ir.Combination

func disjunctionOf(paths ir.NodeSet) ir.Combination { return &ir.Disjunction{Paths: paths} }
func conjunctionOf(paths ir.NodeSet) ir.Combination { return &ir.Conjunction{Paths: paths} }

// combine applies the combination rule: drop empties; none left means no
// contribution; a single result passes through unwrapped; otherwise wrap
// in the given combination class and, unless suppressed, flatten nested
// same-class members.
func combine(results []ir.Node, ctor combinationCtor, flatten bool) ir.Node {
	set := ir.NewNodeSet(results...)
	switch set.Len() {
	case 0:
		return nil
	case 1:
		return set.One()
	}
	c := ctor(set)
	if flatten {
		ir.FlattenCombination(c, false)
	}
	return c
}
