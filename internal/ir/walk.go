package ir

// ChildNodes returns the direct child expressions of a node. The switch is
// exhaustive over the taxonomy; adding a variant without extending it will
// surface as unreachable children in traversal-dependent analyses, so keep
// it in sync with nodes.go.
func ChildNodes(n Node) []Node {
	switch n := n.(type) {
	case *EntitySet:
		var out []Node
		if n.RLink != nil {
			out = append(out, n.RLink)
		}
		if n.Disjunction != nil {
			out = append(out, n.Disjunction)
		}
		out = append(out, n.AtomRefs.Slice()...)
		return out
	case *EntityLink:
		var out []Node
		if n.Source != nil {
			out = append(out, n.Source)
		}
		if n.Target != nil {
			out = append(out, n.Target)
		}
		if n.PropFilter != nil {
			out = append(out, n.PropFilter)
		}
		return out
	case *AtomicRefSimple:
		return nonNil(n.Ref)
	case *AtomicRefExpr:
		return nonNil(n.Ref, n.Expr)
	case *LinkPropRefSimple:
		return nonNil(n.Ref)
	case *LinkPropRefExpr:
		return nonNil(n.Ref, n.Expr)
	case *BinOp:
		return nonNil(n.Left, n.Right)
	case *UnaryOp:
		return nonNil(n.Expr)
	case *Constant:
		return nonNil(n.Expr)
	case *FunctionCall:
		out := append([]Node{}, n.Args...)
		for _, s := range n.AggSort {
			out = append(out, s.Expr)
		}
		if n.AggFilter != nil {
			out = append(out, n.AggFilter)
		}
		out = append(out, n.Partition...)
		return out
	case *Disjunction:
		return n.Paths.Slice()
	case *Conjunction:
		return n.Paths.Slice()
	case *GraphExpr:
		var out []Node
		if n.Generator != nil {
			out = append(out, n.Generator)
		}
		for _, sel := range n.Selector {
			out = append(out, sel.Expr)
		}
		out = append(out, n.Grouper...)
		for _, s := range n.Sorter {
			out = append(out, s.Expr)
		}
		return append(out, nonNil(n.SetOpLArg, n.SetOpRArg)...)
	case *SubgraphRef:
		return nonNil(n.Ref)
	case *TypeCast:
		return nonNil(n.Expr)
	case *Record:
		return append([]Node{}, n.Elements...)
	case *Sequence:
		return append([]Node{}, n.Elements...)
	case *ExistPred:
		return nonNil(n.Expr)
	case *NoneTest:
		return nonNil(n.Expr)
	case *InlineFilter:
		return nonNil(n.Ref, n.Expr)
	case *InlinePropFilter:
		return nonNil(n.Ref, n.Expr)
	case *MetaRef:
		return nonNil(n.Ref)
	default:
		return nil
	}
}

func nonNil(nodes ...Node) []Node {
	out := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Walk traverses the tree rooted at n in pre-order, visiting each node at
// most once even when subtrees are shared or back-linked. visit returning
// false skips the node's children.
func Walk(n Node, visit func(Node) bool) {
	seen := make(map[Node]struct{})
	var walk func(Node)
	walk = func(n Node) {
		if n == nil {
			return
		}
		if _, ok := seen[n]; ok {
			return
		}
		seen[n] = struct{}{}
		if !visit(n) {
			return
		}
		for _, child := range ChildNodes(n) {
			walk(child)
		}
	}
	walk(n)
}

// FindChildren collects every node in the tree (the root included) for
// which pred holds.
func FindChildren(n Node, pred func(Node) bool) []Node {
	var out []Node
	Walk(n, func(n Node) bool {
		if pred(n) {
			out = append(out, n)
		}
		return true
	})
	return out
}
