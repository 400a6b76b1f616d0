package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quernlang/quern/internal/ir"
	"github.com/quernlang/quern/internal/schema"
)

func TestExtractReverseFindsRoot(t *testing.T) {
	s := testSchema(t)
	pet := entityChain(t, s, "app::Person", "app::owns")

	got := ExtractPaths(pet, ExtractOptions{Reverse: true})
	root, ok := got.(*ir.EntitySet)
	require.True(t, ok)
	assert.Equal(t, schema.Name("app::Person"), root.Concept.TypeName())
	assert.Nil(t, root.RLink)
}

func TestExtractReverseAllFragments(t *testing.T) {
	s := testSchema(t)
	pet := entityChain(t, s, "app::Person", "app::owns")

	got := ExtractPaths(pet, ExtractOptions{Reverse: true, AllFragments: true})
	disj, ok := got.(*ir.Disjunction)
	require.True(t, ok)
	assert.Equal(t, 2, disj.Paths.Len())
	assert.True(t, disj.Paths.Contains(pet))
	assert.True(t, disj.Paths.Contains(pet.RLink.Source))
}

func TestExtractForwardStopsAtSet(t *testing.T) {
	s := testSchema(t)
	pet := entityChain(t, s, "app::Person", "app::owns")

	got := ExtractPaths(pet, ExtractOptions{})
	assert.Same(t, pet, got)
}

func TestExtractWrapperResolution(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")
	aref := arefOf(t, s, person, "app::name")

	// Unresolved and forward: the wrapper itself is the path.
	got := ExtractPaths(aref, ExtractOptions{})
	assert.Same(t, aref, got)

	// Resolving dereferences to the wrapped set.
	got = ExtractPaths(aref, ExtractOptions{ResolveRefs: true})
	assert.Same(t, person, got)
}

func TestExtractWeakOpCombinesAsDisjunction(t *testing.T) {
	s := testSchema(t)
	a := entityChain(t, s, "app::Person")
	b := entityChain(t, s, "app::Pet")

	weak := &ir.BinOp{Left: a, Op: ir.OpOr, Right: b}
	got := ExtractPaths(weak, ExtractOptions{})
	disj, ok := got.(*ir.Disjunction)
	require.True(t, ok)
	assert.Equal(t, 2, disj.Paths.Len())

	strong := &ir.BinOp{Left: a, Op: ir.OpAnd, Right: b}
	got = ExtractPaths(strong, ExtractOptions{})
	conj, ok := got.(*ir.Conjunction)
	require.True(t, ok)
	assert.Equal(t, 2, conj.Paths.Len())
}

func TestExtractSingleResultUnwrapped(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	bo := &ir.BinOp{
		Left:  person,
		Op:    ir.OpEq,
		Right: literal(1, s.MustGet(schema.StdInt)),
	}
	got := ExtractPaths(bo, ExtractOptions{})
	assert.Same(t, person, got)
}

func TestExtractConstantOnlyIsNil(t *testing.T) {
	s := testSchema(t)
	bo := &ir.BinOp{
		Left:  literal(1, s.MustGet(schema.StdInt)),
		Op:    ir.OpEq,
		Right: literal(2, s.MustGet(schema.StdInt)),
	}
	assert.Nil(t, ExtractPaths(bo, ExtractOptions{}))
}

func TestExtractSharedSubtreeOnce(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	bo := &ir.BinOp{Left: person, Op: ir.OpAnd, Right: person}
	got := ExtractPaths(bo, ExtractOptions{})
	assert.Same(t, person, got)
}

func TestExtractSubqueryBudget(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	query := &ir.GraphExpr{Generator: person}
	ref := &ir.SubgraphRef{Ref: query}

	assert.Nil(t, ExtractPaths(ref, ExtractOptions{SubqueryBudget: 0}))
	assert.Nil(t, ExtractPaths(ref, ExtractOptions{SubqueryBudget: -1}))
	assert.Same(t, person, ExtractPaths(ref, ExtractOptions{SubqueryBudget: 1}))
}

func TestExtractNegativeBudgetNeverDescends(t *testing.T) {
	s := testSchema(t)
	pet := entityChain(t, s, "app::Pet")

	query := &ir.GraphExpr{Generator: pet, Selector: []ir.SelectorExpr{{Expr: pet}}}
	got := ExtractPaths(query, ExtractOptions{Reverse: true, SubqueryBudget: -1})
	assert.Nil(t, got)
}

func TestExtractNestedSubqueryBudget(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	inner := &ir.GraphExpr{Generator: person}
	outer := &ir.GraphExpr{Generator: &ir.SubgraphRef{Ref: inner}}

	// One level of budget is consumed by the outer query.
	assert.Nil(t, ExtractPaths(outer, ExtractOptions{SubqueryBudget: 1}))
	assert.Same(t, person, ExtractPaths(outer, ExtractOptions{SubqueryBudget: 2}))
	assert.Nil(t, ExtractPaths(outer, ExtractOptions{SubqueryBudget: -1}))
}

func TestExtractCaptureSubgraphRefs(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	ref := &ir.SubgraphRef{Ref: &ir.GraphExpr{Generator: person}}
	got := ExtractPaths(ref, ExtractOptions{SubqueryBudget: 0, CaptureSubgraphRefs: true})
	assert.Same(t, ref, got)
}

func TestExtractFunctionCallKeepsArgGrouping(t *testing.T) {
	s := testSchema(t)
	a := entityChain(t, s, "app::Person")
	b := entityChain(t, s, "app::Pet")
	c := entityChain(t, s, "app::Student")

	call := &ir.FunctionCall{
		Name: "std::count",
		Args: []ir.Node{
			&ir.BinOp{Left: a, Op: ir.OpOr, Right: b},
			c,
		},
	}
	got := ExtractPaths(call, ExtractOptions{})
	conj, ok := got.(*ir.Conjunction)
	require.True(t, ok)
	// The disjunction from the first argument is not flattened away.
	assert.Equal(t, 2, conj.Paths.Len())

	var sawDisj bool
	for _, member := range conj.Paths.Slice() {
		if _, ok := member.(*ir.Disjunction); ok {
			sawDisj = true
		}
	}
	assert.True(t, sawDisj)
}

func TestGetSourceReferences(t *testing.T) {
	s := testSchema(t)
	pet := entityChain(t, s, "app::Person", "app::owns")
	aref := arefOf(t, s, pet, "app::weight")

	refs := GetSourceReferences(aref)
	names := make([]string, len(refs))
	for i, r := range refs {
		names[i] = string(r.TypeName())
	}
	assert.Equal(t, []string{"app::Person", "app::Pet", "app::owns"}, names)

	assert.Nil(t, GetSourceReferences(literal(1, s.MustGet(schema.StdInt))))
}

func TestGetSourceReferencesSkipsNestedQueries(t *testing.T) {
	s := testSchema(t)
	pet := entityChain(t, s, "app::Pet")

	query := &ir.GraphExpr{
		Generator: &ir.BinOp{
			Left:  arefOf(t, s, pet, "app::weight"),
			Op:    ir.OpGT,
			Right: literal(20, s.MustGet(schema.StdInt)),
		},
		Selector: []ir.SelectorExpr{{Expr: pet}},
	}
	assert.Empty(t, GetSourceReferences(&ir.SubgraphRef{Ref: query}))
}

func TestGetTerminalReferences(t *testing.T) {
	s := testSchema(t)
	pet := entityChain(t, s, "app::Person", "app::owns")

	terms := GetTerminalReferences(pet)
	require.Len(t, terms, 1)
	assert.Same(t, pet, terms[0])
}

func TestGetVariablesAndIsConst(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	withVar := &ir.BinOp{
		Left:  arefOf(t, s, person, "app::age"),
		Op:    ir.OpEq,
		Right: ir.Param(3, nil),
	}
	vars := GetVariables(withVar)
	require.Len(t, vars, 1)
	assert.Equal(t, 3, *vars[0].Index)
	assert.False(t, IsConst(withVar))

	pure := &ir.BinOp{
		Left:  literal(1, s.MustGet(schema.StdInt)),
		Op:    ir.OpAdd,
		Right: literal(2, s.MustGet(schema.StdInt)),
	}
	assert.Empty(t, GetVariables(pure))
	assert.True(t, IsConst(pure))
}

func TestExtendBinOp(t *testing.T) {
	s := testSchema(t)
	a := literal(1, s.MustGet(schema.StdInt))
	b := literal(2, s.MustGet(schema.StdInt))
	c := literal(3, s.MustGet(schema.StdInt))

	// Nil accumulator seeds from the first expression.
	got := ExtendBinOp(nil, ir.OpAnd, false, a)
	assert.Same(t, a, got)

	got = ExtendBinOp(nil, ir.OpAnd, false, a, b, c)
	outer, ok := got.(*ir.BinOp)
	require.True(t, ok)
	assert.Same(t, c, outer.Right)
	inner, ok := outer.Left.(*ir.BinOp)
	require.True(t, ok)
	assert.Same(t, a, inner.Left)
	assert.Same(t, b, inner.Right)

	// Reversed chains right-associate.
	got = ExtendBinOp(a, ir.OpAnd, true, b)
	outer, ok = got.(*ir.BinOp)
	require.True(t, ok)
	assert.Same(t, b, outer.Left)
	assert.Same(t, a, outer.Right)

	// The accumulator itself is never self-combined.
	got = ExtendBinOp(a, ir.OpAnd, false, a)
	assert.Same(t, ir.Node(a), got)
}
