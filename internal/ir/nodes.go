package ir

import "github.com/quernlang/quern/internal/schema"

// Node is the sealed interface over all IR variants.
type Node interface {
	irNode() // marker - seals interface to this package
}

// EntitySet is a graph node reference. Its rlink chain, followed through
// rlink.Source, always terminates at a root EntitySet with no rlink; that
// chain defines the node's path identity.
type EntitySet struct {
	ID      *LinearPath
	Concept *schema.Concept

	// RLink is the back-edge to the link that produced this set.
	RLink *EntityLink

	// Disjunction holds the outgoing links fanning out from this set.
	Disjunction *Disjunction

	// AtomRefs tracks property references hanging off this set.
	AtomRefs NodeSet

	PathVar string
	Anchor  string

	// Origin points back at the node this one was copied from, when the
	// path copier ran with origin tracking.
	Origin Node

	Users        StringSet
	RewriteFlags StringSet
}

// IsTerminal reports whether the set is a leaf of its path tree: nothing
// fans out from it and no property references hang off it.
func (es *EntitySet) IsTerminal() bool {
	if es.Disjunction != nil && es.Disjunction.Paths.Len() > 0 {
		return false
	}
	return es.AtomRefs.Len() == 0
}

// EntityLink is an edge between entity sets. Target is a Node because the
// path copier can hang a property reference off a link chain.
type EntityLink struct {
	Source    *EntitySet
	Target    Node
	LinkProto *schema.Link
	Direction Direction

	// PropFilter constrains the link by a predicate over link properties.
	PropFilter Node

	PathVar string
	Anchor  string

	Users        StringSet
	RewriteFlags StringSet
}

// AtomicRefSimple is a named property reference off an entity.
type AtomicRefSimple struct {
	Ref      Node // *EntitySet, or a Combination of entity sets
	Name     schema.Name
	ID       *LinearPath
	PtrProto *schema.Link
	RLink    *EntityLink

	PathVar string
	Anchor  string

	Users        StringSet
	RewriteFlags StringSet
}

// AtomicRefExpr is a property reference wrapping a computed expression.
type AtomicRefExpr struct {
	Ref      Node
	Expr     Node
	Inline   bool
	ID       *LinearPath
	PtrProto *schema.Link
	RLink    *EntityLink

	PathVar string
	Anchor  string

	Users        StringSet
	RewriteFlags StringSet
}

// LinkPropRefSimple is a named property reference off a link.
type LinkPropRefSimple struct {
	Ref      Node // *EntityLink, or a Combination of links
	Name     schema.Name
	ID       *LinearPath
	PtrProto *schema.Link
	RLink    *EntityLink

	PathVar string
	Anchor  string

	Users        StringSet
	RewriteFlags StringSet
}

// LinkPropRefExpr is a link property reference wrapping a computed
// expression.
type LinkPropRefExpr struct {
	Ref      Node
	Expr     Node
	Inline   bool
	ID       *LinearPath
	PtrProto *schema.Link
	RLink    *EntityLink

	PathVar string
	Anchor  string

	Users        StringSet
	RewriteFlags StringSet
}

// BinOp applies a binary operator.
type BinOp struct {
	Left  Node
	Op    Operator
	Right Node
}

// UnaryOp applies a unary operator.
type UnaryOp struct {
	Op   Operator
	Expr Node
}

// Constant is a literal or a query parameter. Index is nil for literals;
// for parameters it is the zero-based argument position. A non-nil Expr is
// a replacement expression whose type shadows the declared one.
type Constant struct {
	Value any
	Index *int
	Type  schema.Type
	Expr  Node
}

// Param builds a parameter constant.
func Param(index int, typ schema.Type) *Constant {
	i := index
	return &Constant{Index: &i, Type: typ}
}

// SortExpr orders query or aggregate output.
type SortExpr struct {
	Expr      Node
	Direction SortDirection
}

// FunctionCall invokes a registered function, optionally with aggregate
// clauses.
type FunctionCall struct {
	Name      schema.Name
	Args      []Node
	AggSort   []SortExpr
	AggFilter Node
	Partition []Node
}

// SelectorExpr is one output column of a query.
type SelectorExpr struct {
	Expr Node
	Name string
}

// GraphExpr is a full query expression.
type GraphExpr struct {
	Generator Node
	Selector  []SelectorExpr
	Grouper   []Node
	Sorter    []SortExpr

	// Set operation over two subqueries; zero value means none.
	SetOp     Operator
	SetOpLArg Node
	SetOpRArg Node
}

// SubgraphRef wraps a nested query used as an expression.
type SubgraphRef struct {
	Ref  Node
	Name string
}

// TypeRef names a cast target, optionally with collection subtypes.
type TypeRef struct {
	MainType schema.Name
	Subtypes []schema.Name
}

// TypeCast converts an expression to a named type.
type TypeCast struct {
	Expr Node
	Type TypeRef
}

// Record is a concept-shaped tuple of expressions.
type Record struct {
	Elements []Node
	Concept  *schema.Concept
	RLink    *EntityLink
}

// Sequence is an ordered list of expressions.
type Sequence struct {
	Elements []Node
}

// ExistPred tests whether a subexpression yields any result.
type ExistPred struct {
	Expr Node
}

// NoneTest tests whether a subexpression yields no value.
type NoneTest struct {
	Expr Node
}

// InlineFilter restricts a path in place by a predicate.
type InlineFilter struct {
	Ref  Node
	Expr Node
}

// InlinePropFilter restricts a link in place by a link-property predicate.
type InlinePropFilter struct {
	Ref  Node
	Expr Node
}

// MetaRef refers to type-level metadata of an entity (for example its
// type name).
type MetaRef struct {
	Ref  Node
	Name string
}

func (*EntitySet) irNode()         {}
func (*EntityLink) irNode()        {}
func (*AtomicRefSimple) irNode()   {}
func (*AtomicRefExpr) irNode()     {}
func (*LinkPropRefSimple) irNode() {}
func (*LinkPropRefExpr) irNode()   {}
func (*BinOp) irNode()             {}
func (*UnaryOp) irNode()           {}
func (*Constant) irNode()          {}
func (*FunctionCall) irNode()      {}
func (*Disjunction) irNode()       {}
func (*Conjunction) irNode()       {}
func (*GraphExpr) irNode()         {}
func (*SubgraphRef) irNode()       {}
func (*TypeCast) irNode()          {}
func (*Record) irNode()            {}
func (*Sequence) irNode()          {}
func (*ExistPred) irNode()         {}
func (*NoneTest) irNode()          {}
func (*InlineFilter) irNode()      {}
func (*InlinePropFilter) irNode()  {}
func (*MetaRef) irNode()           {}
