package sema

import "github.com/quernlang/quern/internal/ir"

// InlineConstants substitutes known parameter values into a tree in place.
// A scalar value replaces the constant's value directly; a container value
// is lifted into a Sequence of constants so downstream passes see the
// expanded form. Parameters without a supplied value are left untouched.
func InlineConstants(tree ir.Node, values map[int]any) {
	for _, match := range ir.FindChildren(tree, func(n ir.Node) bool {
		c, ok := n.(*ir.Constant)
		if !ok || c.Index == nil {
			return false
		}
		_, supplied := values[*c.Index]
		return supplied
	}) {
		c := match.(*ir.Constant)
		value := values[*c.Index]

		if items, ok := value.([]any); ok {
			elements := make([]ir.Node, len(items))
			for i, item := range items {
				elements[i] = &ir.Constant{Value: item, Type: c.Type}
			}
			c.Expr = &ir.Sequence{Elements: elements}
			continue
		}
		c.Value = value
	}
}
