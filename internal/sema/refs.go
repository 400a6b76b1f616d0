package sema

import (
	"sort"

	"github.com/quernlang/quern/internal/ir"
	"github.com/quernlang/quern/internal/schema"
)

// GetSourceReferences collects the concept and link types an expression
// traverses, without descending into nested queries. Results are deduped
// and returned in name order.
func GetSourceReferences(n ir.Node) []schema.Type {
	refs := ExtractPaths(n, ExtractOptions{
		Reverse:        true,
		ResolveRefs:    true,
		SubqueryBudget: -1,
	})
	if refs == nil {
		return nil
	}

	seen := make(map[schema.Name]schema.Type)
	ir.Walk(refs, func(n ir.Node) bool {
		switch n := n.(type) {
		case *ir.EntitySet:
			if n.Concept != nil {
				seen[n.Concept.TypeName()] = n.Concept
			}
		case *ir.EntityLink:
			if n.LinkProto != nil {
				seen[n.LinkProto.TypeName()] = n.LinkProto
			}
		}
		return true
	})

	names := make([]schema.Name, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	out := make([]schema.Type, len(names))
	for i, name := range names {
		out[i] = seen[name]
	}
	return out
}

// GetTerminalReferences collects the leaf entity sets an expression
// references one subquery level deep.
func GetTerminalReferences(n ir.Node) []*ir.EntitySet {
	refs := ExtractPaths(n, ExtractOptions{
		Reverse:        true,
		ResolveRefs:    true,
		SubqueryBudget: 1,
	})
	if refs == nil {
		return nil
	}

	var out []*ir.EntitySet
	for _, match := range ir.FindChildren(refs, func(n ir.Node) bool {
		es, ok := n.(*ir.EntitySet)
		return ok && es.IsTerminal()
	}) {
		out = append(out, match.(*ir.EntitySet))
	}
	return out
}

// GetVariables collects every parameter reference in an expression.
func GetVariables(n ir.Node) []*ir.Constant {
	var out []*ir.Constant
	for _, match := range ir.FindChildren(n, func(n ir.Node) bool {
		c, ok := n.(*ir.Constant)
		return ok && c.Index != nil
	}) {
		out = append(out, match.(*ir.Constant))
	}
	return out
}

// IsConst reports whether an expression references no paths and no
// parameters: a constant-only expression.
func IsConst(n ir.Node) bool {
	refs := ExtractPaths(n, ExtractOptions{
		Reverse:        true,
		ResolveRefs:    true,
		SubqueryBudget: 1,
	})
	return refs == nil && len(GetVariables(n)) == 0
}

// ExtendBinOp folds exprs into binop as a chain of binary operators: left
// associated normally, right associated when reversed. A nil binop seeds
// the chain with the first expression, and an expression that is the
// accumulator itself is skipped rather than self-combined.
func ExtendBinOp(binop ir.Node, op ir.Operator, reversed bool, exprs ...ir.Node) ir.Node {
	if binop == nil && len(exprs) > 0 {
		binop, exprs = exprs[0], exprs[1:]
	}
	for _, expr := range exprs {
		if expr == binop {
			continue
		}
		if reversed {
			binop = &ir.BinOp{Left: expr, Op: op, Right: binop}
		} else {
			binop = &ir.BinOp{Left: binop, Op: op, Right: expr}
		}
	}
	return binop
}
