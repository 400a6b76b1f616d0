package sema

import (
	"github.com/quernlang/quern/internal/ir"
	"github.com/quernlang/quern/internal/schema"
)

// InferType computes the schema type of an arbitrary IR node. A nil result
// with a nil error means the expression has no single type (multi-column
// queries, bare links, empty combinations); contexts that require a type
// turn that into an error themselves. InferType is a pure function of the
// tree and the schema snapshot.
func InferType(n ir.Node, s *schema.Schema) (schema.Type, error) {
	switch n := n.(type) {
	case *ir.MetaRef:
		return s.Get(schema.StdStr)

	case *ir.AtomicRefSimple:
		concept, err := refConcept(n.Ref)
		if err != nil {
			return nil, err
		}
		ptr := s.ResolvePointer(concept, n.Name, true)
		if ptr == nil {
			return nil, newLookupError(string(concept.TypeName()), string(n.Name))
		}
		return ptr.Target, nil

	case *ir.LinkPropRefSimple:
		link, err := refLink(n.Ref)
		if err != nil {
			return nil, err
		}
		prop := link.Property(n.Name)
		if prop == nil {
			return nil, newLookupError(string(link.TypeName()), string(n.Name))
		}
		return prop.Target, nil

	case *ir.AtomicRefExpr:
		return InferType(n.Expr, s)

	case *ir.LinkPropRefExpr:
		return InferType(n.Expr, s)

	case *ir.Record:
		return n.Concept, nil

	case *ir.FunctionCall:
		// Argument types are not propagated into overload resolution yet;
		// the declared return type is authoritative.
		fn, err := s.Function(n.Name)
		if err != nil {
			return nil, err
		}
		return fn.ReturnType, nil

	case *ir.Constant:
		if n.Expr != nil {
			return InferType(n.Expr, s)
		}
		return n.Type, nil

	case *ir.BinOp:
		switch n.Op.Class() {
		case ir.ClassComparison, ir.ClassTypeCheck, ir.ClassMembership:
			return s.Get(schema.StdBool)
		}
		leftType, err := InferType(n.Left, s)
		if err != nil {
			return nil, err
		}
		rightType, err := InferType(n.Right, s)
		if err != nil {
			return nil, err
		}
		op := schema.Operator(n.Op)
		result, err := s.Rules().BinaryResult(s, op, leftType, rightType)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result, err = s.Rules().ReversedBinaryResult(s, op, rightType, leftType)
			if err != nil {
				return nil, err
			}
		}
		return result, nil

	case *ir.UnaryOp:
		operandType, err := InferType(n.Expr, s)
		if err != nil {
			return nil, err
		}
		return s.Rules().UnaryResult(s, schema.Operator(n.Op), operandType)

	case *ir.EntitySet:
		return n.Concept, nil

	case *ir.Disjunction:
		return combinationType(n, s)

	case *ir.Conjunction:
		return combinationType(n, s)

	case *ir.TypeCast:
		if len(n.Type.Subtypes) > 0 {
			kind, ok := schema.CollectionKindFromName(n.Type.MainType)
			if !ok {
				return nil, newInternalError(
					"type cast to %q with subtypes is not a collection", n.Type.MainType)
			}
			subtypes := make([]schema.Type, len(n.Type.Subtypes))
			for i, name := range n.Type.Subtypes {
				st, err := s.Get(name)
				if err != nil {
					return nil, err
				}
				subtypes[i] = st
			}
			return schema.NewCollection(kind, subtypes), nil
		}
		return s.Get(n.Type.MainType)

	case *ir.GraphExpr:
		if len(n.Selector) == 1 {
			return InferType(n.Selector[0].Expr, s)
		}
		return nil, nil

	case *ir.SubgraphRef:
		return InferType(n.Ref, s)

	case *ir.ExistPred:
		return s.Get(schema.StdBool)

	case *ir.EntityLink, *ir.Sequence, *ir.NoneTest,
		*ir.InlineFilter, *ir.InlinePropFilter:
		return nil, nil

	default:
		return nil, newInternalError("infer type: unexpected node %T", n)
	}
}

// combinationType returns the type of an arbitrary member path: members of
// a well-formed combination all share a type. An empty combination has no
// type.
func combinationType(c ir.Combination, s *schema.Schema) (schema.Type, error) {
	member := c.PathSet().One()
	if member == nil {
		return nil, nil
	}
	return InferType(member, s)
}

// refConcept resolves the owning concept of a property reference. When the
// source is a combination, the owner is the nearest common ancestor of all
// branch concepts.
func refConcept(ref ir.Node) (*schema.Concept, error) {
	switch ref := ref.(type) {
	case *ir.EntitySet:
		if ref.Concept == nil {
			return nil, newInternalError("property reference off an untyped entity set")
		}
		return ref.Concept, nil
	case ir.Combination:
		var targets []schema.Type
		for _, member := range ref.PathSet().Slice() {
			es, ok := member.(*ir.EntitySet)
			if !ok {
				return nil, newInternalError(
					"property reference off a combination with non-entity member %T", member)
			}
			targets = append(targets, es.Concept)
		}
		ancestor := schema.NearestCommonAncestor(targets)
		concept, ok := ancestor.(*schema.Concept)
		if !ok {
			return nil, newInternalError(
				"combination branches have no common ancestor concept")
		}
		return concept, nil
	default:
		return nil, newInternalError("property reference off unexpected node %T", ref)
	}
}

// refLink resolves the owning link of a link-property reference, through a
// combination the same way refConcept does.
func refLink(ref ir.Node) (*schema.Link, error) {
	switch ref := ref.(type) {
	case *ir.EntityLink:
		if ref.LinkProto == nil {
			return nil, newInternalError("link property reference off an untyped link")
		}
		return ref.LinkProto, nil
	case ir.Combination:
		var targets []schema.Type
		for _, member := range ref.PathSet().Slice() {
			el, ok := member.(*ir.EntityLink)
			if !ok {
				return nil, newInternalError(
					"link property reference off a combination with non-link member %T", member)
			}
			targets = append(targets, el.LinkProto)
		}
		ancestor := schema.NearestCommonAncestor(targets)
		link, ok := ancestor.(*schema.Link)
		if !ok {
			return nil, newInternalError(
				"combination branches have no common ancestor link")
		}
		return link, nil
	default:
		return nil, newInternalError("link property reference off unexpected node %T", ref)
	}
}
