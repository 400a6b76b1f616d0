package sema

import "github.com/quernlang/quern/internal/ir"

// ExtractPrefixes walks an expression and records every entity set and
// simple property reference with a resolvable path identity, together with
// all its upstream ancestors, in a PathIndex. The result is the complete
// set of path prefixes the expression touches, used by planning to detect
// shared join prefixes across predicates. Dispatch is exhaustive over the
// taxonomy; an unhandled variant is an internal error.
func ExtractPrefixes(expr ir.Node) (ir.PathIndex, error) {
	idx := ir.NewPathIndex()
	if err := extractPrefixes(expr, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

func extractPrefixes(expr ir.Node, idx ir.PathIndex) error {
	switch expr := expr.(type) {
	case *ir.Disjunction:
		return prefixesOf(idx, expr.Paths.Slice()...)
	case *ir.Conjunction:
		return prefixesOf(idx, expr.Paths.Slice()...)

	case *ir.EntitySet:
		if id := entityPathID(expr); id != nil {
			idx.Put(id.Key(), expr)
		}
		if expr.RLink != nil && expr.RLink.Source != nil {
			return extractPrefixes(expr.RLink.Source, idx)
		}
		return nil

	case *ir.AtomicRefSimple:
		// References whose source is a combination have no identity of
		// their own; only their source contributes prefixes.
		if id := ir.RefPathID(expr); id != nil {
			idx.Put(id.Key(), expr)
		}
		return extractPrefixes(expr.Ref, idx)

	case *ir.EntityLink:
		if expr.Target != nil {
			return extractPrefixes(expr.Target, idx)
		}
		if expr.Source != nil {
			return extractPrefixes(expr.Source, idx)
		}
		return nil

	case *ir.LinkPropRefSimple:
		return extractPrefixes(expr.Ref, idx)

	case *ir.BinOp:
		return prefixesOf(idx, expr.Left, expr.Right)

	case *ir.UnaryOp:
		return extractPrefixes(expr.Expr, idx)

	case *ir.ExistPred:
		return extractPrefixes(expr.Expr, idx)

	case *ir.NoneTest:
		return extractPrefixes(expr.Expr, idx)

	case *ir.InlineFilter:
		return prefixesOf(idx, expr.Ref, expr.Expr)

	case *ir.InlinePropFilter:
		return prefixesOf(idx, expr.Ref, expr.Expr)

	case *ir.AtomicRefExpr:
		return extractPrefixes(expr.Expr, idx)

	case *ir.LinkPropRefExpr:
		return extractPrefixes(expr.Expr, idx)

	case *ir.FunctionCall:
		if err := prefixesOf(idx, expr.Args...); err != nil {
			return err
		}
		for _, srt := range expr.AggSort {
			if err := extractPrefixes(srt.Expr, idx); err != nil {
				return err
			}
		}
		if expr.AggFilter != nil {
			if err := extractPrefixes(expr.AggFilter, idx); err != nil {
				return err
			}
		}
		return prefixesOf(idx, expr.Partition...)

	case *ir.TypeCast:
		return extractPrefixes(expr.Expr, idx)

	case *ir.Sequence:
		return prefixesOf(idx, expr.Elements...)

	case *ir.Record:
		return prefixesOf(idx, expr.Elements...)

	case *ir.Constant:
		return nil

	case *ir.GraphExpr:
		// Nested queries contribute their prefixes through SubgraphRef.
		return nil

	case *ir.SubgraphRef:
		return extractPrefixes(expr.Ref, idx)

	default:
		return newInternalError("extract prefixes: unexpected node %T", expr)
	}
}

func prefixesOf(idx ir.PathIndex, nodes ...ir.Node) error {
	for _, n := range nodes {
		if n == nil {
			continue
		}
		if err := extractPrefixes(n, idx); err != nil {
			return err
		}
	}
	return nil
}

// entityPathID returns the identity of an entity set, preferring the one
// assigned by the compiler and deriving it from the rlink chain otherwise.
func entityPathID(es *ir.EntitySet) *ir.LinearPath {
	if es.ID != nil {
		return es.ID
	}
	return ir.PathID(es)
}

// GetPathIndex extracts every path fragment of an expression one subquery
// level deep and indexes the entity sets by path identity, so equivalent
// traversals can be merged into shared joins.
func GetPathIndex(expr ir.Node) ir.PathIndex {
	paths := ExtractPaths(expr, ExtractOptions{
		Reverse:        true,
		ResolveRefs:    false,
		SubqueryBudget: 1,
		AllFragments:   true,
	})

	var members []ir.Node
	switch paths := paths.(type) {
	case nil:
	case ir.Combination:
		ir.FlattenCombination(paths, true)
		members = paths.PathSet().Slice()
	default:
		members = []ir.Node{paths}
	}

	idx := ir.NewPathIndex()
	for _, member := range members {
		es, ok := member.(*ir.EntitySet)
		if !ok {
			continue
		}
		if id := entityPathID(es); id != nil {
			idx.Put(id.Key(), es)
		}
	}
	return idx
}
