package sema

import (
	"github.com/quernlang/quern/internal/ir"
	"github.com/quernlang/quern/internal/schema"
)

// InferArgTypes infers the type of every query parameter from its usage
// context. It scans binary operators with a constant on one side: a match
// operator forces std::str, comparison and arithmetic operators take the
// type of the non-constant side, membership with the parameter on the
// right takes set-of(element type), and boolean operators force std::bool.
// Two different inferred types for one parameter index is an ambiguity
// error; an operator with no rule here is an unsupported-operator error.
func InferArgTypes(root ir.Node, s *schema.Schema) (map[int]schema.Type, error) {
	binops := ir.FindChildren(root, func(n ir.Node) bool {
		bo, ok := n.(*ir.BinOp)
		if !ok {
			return false
		}
		_, leftConst := bo.Left.(*ir.Constant)
		_, rightConst := bo.Right.(*ir.Constant)
		return leftConst || rightConst
	})

	argTypes := make(map[int]schema.Type)

	for _, n := range binops {
		bo := n.(*ir.BinOp)

		var expr ir.Node
		var arg *ir.Constant
		reversed := false
		if c, ok := bo.Right.(*ir.Constant); ok {
			expr, arg = bo.Left, c
		} else {
			expr, arg = bo.Right, bo.Left.(*ir.Constant)
			reversed = true
		}

		if arg.Index == nil {
			continue
		}

		var typ schema.Type
		var err error
		switch class := bo.Op.Class(); {
		case class == ir.ClassMatch:
			typ, err = s.Get(schema.StdStr)

		case class == ir.ClassComparison || class == ir.ClassArithmetic:
			typ, err = InferType(expr, s)

		case class == ir.ClassMembership && !reversed:
			var elem schema.Type
			elem, err = InferType(expr, s)
			if err == nil && elem != nil {
				typ = schema.NewSet(elem)
			}

		case class == ir.ClassBoolean:
			typ, err = s.Get(schema.StdBool)

		default:
			return nil, newUnsupportedOperatorError(string(bo.Op))
		}
		if err != nil {
			return nil, err
		}
		if typ == nil {
			return nil, newUntypedError("operand of " + string(bo.Op) + " has no type")
		}

		if existing, ok := argTypes[*arg.Index]; ok {
			if !schema.Equal(existing, typ) {
				return nil, newAmbiguousParamError(
					*arg.Index,
					string(existing.TypeName()), string(typ.TypeName()))
			}
		} else {
			argTypes[*arg.Index] = typ
		}
	}

	return argTypes, nil
}
