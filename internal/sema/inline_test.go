package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quernlang/quern/internal/ir"
	"github.com/quernlang/quern/internal/schema"
)

func TestInlineConstantsScalar(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	param := ir.Param(0, s.MustGet(schema.StdInt))
	tree := &ir.BinOp{
		Left:  arefOf(t, s, person, "app::age"),
		Op:    ir.OpGT,
		Right: param,
	}

	InlineConstants(tree, map[int]any{0: 30})
	assert.Equal(t, 30, param.Value)
	assert.Nil(t, param.Expr)
}

func TestInlineConstantsContainer(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	param := ir.Param(0, s.MustGet(schema.StdInt))
	tree := &ir.BinOp{
		Left:  arefOf(t, s, person, "app::age"),
		Op:    ir.OpIn,
		Right: param,
	}

	InlineConstants(tree, map[int]any{0: []any{1, 2, 3}})

	require.NotNil(t, param.Expr)
	seq, ok := param.Expr.(*ir.Sequence)
	require.True(t, ok)
	require.Len(t, seq.Elements, 3)
	for i, elem := range seq.Elements {
		c, ok := elem.(*ir.Constant)
		require.True(t, ok)
		assert.Equal(t, i+1, c.Value)
		assert.Equal(t, schema.StdInt, c.Type.TypeName())
	}
}

func TestInlineConstantsUnsuppliedLeftAlone(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	p0 := ir.Param(0, s.MustGet(schema.StdInt))
	p1 := ir.Param(1, s.MustGet(schema.StdStr))
	tree := &ir.BinOp{
		Left: &ir.BinOp{
			Left:  arefOf(t, s, person, "app::age"),
			Op:    ir.OpGT,
			Right: p0,
		},
		Op: ir.OpAnd,
		Right: &ir.BinOp{
			Left:  arefOf(t, s, person, "app::name"),
			Op:    ir.OpEq,
			Right: p1,
		},
	}

	InlineConstants(tree, map[int]any{0: 18})
	assert.Equal(t, 18, p0.Value)
	assert.Nil(t, p1.Value)
}

func TestInlineConstantsLiteralUntouched(t *testing.T) {
	s := testSchema(t)
	lit := literal(5, s.MustGet(schema.StdInt))
	InlineConstants(lit, map[int]any{0: 99})
	assert.Equal(t, 5, lit.Value)
}
