package sema

import "github.com/quernlang/quern/internal/ir"

// CopyPath produces a fully independent structural copy of an entity-set
// or link chain, walking from the given node up through its rlink chain to
// the root. Every copied node owns freshly cloned metadata sets and the
// copies are relinked in the source topology. With connectToOrigin set,
// each copy records a back-reference to the node it was copied from (or to
// that node's own recorded origin, so successive rewrites keep pointing at
// the original expression).
func CopyPath(path ir.Node, connectToOrigin bool) (ir.Node, error) {
	var result ir.Node
	var rlink *ir.EntityLink

	switch p := path.(type) {
	case *ir.EntitySet:
		es := &ir.EntitySet{
			ID:           p.ID,
			PathVar:      p.PathVar,
			Anchor:       p.Anchor,
			Concept:      p.Concept,
			Users:        p.Users.Clone(),
			RewriteFlags: p.RewriteFlags.Clone(),
		}
		if connectToOrigin {
			es.Origin = origin(p, p.Origin)
		}
		result = es
		rlink = p.RLink

	case *ir.AtomicRefSimple:
		result = &ir.AtomicRefSimple{
			Ref:          p.Ref,
			Name:         p.Name,
			ID:           p.ID,
			PtrProto:     p.PtrProto,
			PathVar:      p.PathVar,
			Anchor:       p.Anchor,
			Users:        p.Users.Clone(),
			RewriteFlags: p.RewriteFlags.Clone(),
		}
		rlink = p.RLink

	case *ir.AtomicRefExpr:
		result = &ir.AtomicRefExpr{
			Ref:          p.Ref,
			Expr:         p.Expr,
			Inline:       p.Inline,
			ID:           p.ID,
			PtrProto:     p.PtrProto,
			PathVar:      p.PathVar,
			Anchor:       p.Anchor,
			Users:        p.Users.Clone(),
			RewriteFlags: p.RewriteFlags.Clone(),
		}
		rlink = p.RLink

	case *ir.LinkPropRefSimple:
		result = &ir.LinkPropRefSimple{
			Ref:          p.Ref,
			Name:         p.Name,
			ID:           p.ID,
			PtrProto:     p.PtrProto,
			PathVar:      p.PathVar,
			Anchor:       p.Anchor,
			Users:        p.Users.Clone(),
			RewriteFlags: p.RewriteFlags.Clone(),
		}
		rlink = p.RLink

	case *ir.LinkPropRefExpr:
		result = &ir.LinkPropRefExpr{
			Ref:          p.Ref,
			Expr:         p.Expr,
			Inline:       p.Inline,
			ID:           p.ID,
			PtrProto:     p.PtrProto,
			PathVar:      p.PathVar,
			Anchor:       p.Anchor,
			Users:        p.Users.Clone(),
			RewriteFlags: p.RewriteFlags.Clone(),
		}
		rlink = p.RLink

	case *ir.EntityLink:
		// Copying from a link: the chain walk below builds everything.
		rlink = p

	default:
		return nil, newInternalError("copy path: unexpected node %T", path)
	}

	current := result

	for rlink != nil {
		link := &ir.EntityLink{
			Target:       current,
			LinkProto:    rlink.LinkProto,
			Direction:    rlink.Direction,
			PropFilter:   rlink.PropFilter,
			PathVar:      rlink.PathVar,
			Anchor:       rlink.Anchor,
			Users:        rlink.Users.Clone(),
			RewriteFlags: rlink.RewriteFlags.Clone(),
		}
		if result == nil {
			result = link
		}

		parentPath := rlink.Source
		if parentPath == nil {
			break
		}

		parent := &ir.EntitySet{
			ID:           parentPath.ID,
			PathVar:      parentPath.PathVar,
			Anchor:       parentPath.Anchor,
			Concept:      parentPath.Concept,
			Users:        parentPath.Users.Clone(),
			RewriteFlags: parentPath.RewriteFlags.Clone(),
			Disjunction:  ir.NewDisjunction(link),
		}
		if connectToOrigin {
			parent.Origin = origin(parentPath, parentPath.Origin)
		}
		link.Source = parent

		if current != nil {
			setRLink(current, link)
		}
		current = parent
		rlink = parentPath.RLink
	}

	return result, nil
}

func origin(node ir.Node, recorded ir.Node) ir.Node {
	if recorded != nil {
		return recorded
	}
	return node
}

func setRLink(n ir.Node, link *ir.EntityLink) {
	switch n := n.(type) {
	case *ir.EntitySet:
		n.RLink = link
	case *ir.AtomicRefSimple:
		n.RLink = link
	case *ir.AtomicRefExpr:
		n.RLink = link
	case *ir.LinkPropRefSimple:
		n.RLink = link
	case *ir.LinkPropRefExpr:
		n.RLink = link
	}
}
