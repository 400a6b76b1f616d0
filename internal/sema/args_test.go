package sema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quernlang/quern/internal/ir"
	"github.com/quernlang/quern/internal/schema"
)

func TestInferArgTypesComparison(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	bo := &ir.BinOp{
		Left:  arefOf(t, s, person, "app::age"),
		Op:    ir.OpGT,
		Right: ir.Param(0, nil),
	}
	args, err := InferArgTypes(bo, s)
	require.NoError(t, err)
	require.Len(t, args, 1)
	assert.Equal(t, schema.StdInt, args[0].TypeName())
}

func TestInferArgTypesReversedComparison(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	// Parameter on the left takes the type of the right side.
	bo := &ir.BinOp{
		Left:  ir.Param(2, nil),
		Op:    ir.OpLT,
		Right: arefOf(t, s, person, "app::age"),
	}
	args, err := InferArgTypes(bo, s)
	require.NoError(t, err)
	require.Len(t, args, 1)
	assert.Equal(t, schema.StdInt, args[2].TypeName())
}

func TestInferArgTypesMatch(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	bo := &ir.BinOp{
		Left:  arefOf(t, s, person, "app::name"),
		Op:    ir.OpLike,
		Right: ir.Param(0, nil),
	}
	args, err := InferArgTypes(bo, s)
	require.NoError(t, err)
	assert.Equal(t, schema.StdStr, args[0].TypeName())
}

func TestInferArgTypesMembership(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	bo := &ir.BinOp{
		Left:  arefOf(t, s, person, "app::age"),
		Op:    ir.OpIn,
		Right: ir.Param(0, nil),
	}
	args, err := InferArgTypes(bo, s)
	require.NoError(t, err)
	assert.Equal(t, schema.Name("set<std::int>"), args[0].TypeName())
}

func TestInferArgTypesReversedMembershipUnsupported(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	// A parameter on the left of IN is not a set-typed position.
	bo := &ir.BinOp{
		Left:  ir.Param(0, nil),
		Op:    ir.OpIn,
		Right: arefOf(t, s, person, "app::age"),
	}
	_, err := InferArgTypes(bo, s)
	require.Error(t, err)
	assert.True(t, IsUnsupportedOperatorError(err))
}

func TestInferArgTypesBoolean(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	bo := &ir.BinOp{
		Left: &ir.BinOp{
			Left:  arefOf(t, s, person, "app::age"),
			Op:    ir.OpGT,
			Right: literal(1, s.MustGet(schema.StdInt)),
		},
		Op:    ir.OpAnd,
		Right: ir.Param(0, nil),
	}
	args, err := InferArgTypes(bo, s)
	require.NoError(t, err)
	assert.Equal(t, schema.StdBool, args[0].TypeName())
}

func TestInferArgTypesLiteralSkipped(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	bo := &ir.BinOp{
		Left:  arefOf(t, s, person, "app::age"),
		Op:    ir.OpGT,
		Right: literal(30, s.MustGet(schema.StdInt)),
	}
	args, err := InferArgTypes(bo, s)
	require.NoError(t, err)
	assert.Empty(t, args)
}

func TestInferArgTypesConsistentReuse(t *testing.T) {
	s := testSchema(t)
	a := entityChain(t, s, "app::Person")
	b := entityChain(t, s, "app::Person")

	bo := &ir.BinOp{
		Left: &ir.BinOp{
			Left:  arefOf(t, s, a, "app::age"),
			Op:    ir.OpEq,
			Right: ir.Param(0, nil),
		},
		Op: ir.OpAnd,
		Right: &ir.BinOp{
			Left:  arefOf(t, s, b, "app::age"),
			Op:    ir.OpGT,
			Right: ir.Param(0, nil),
		},
	}
	args, err := InferArgTypes(bo, s)
	require.NoError(t, err)
	require.Len(t, args, 1)
	assert.Equal(t, schema.StdInt, args[0].TypeName())
}

func TestInferArgTypesAmbiguous(t *testing.T) {
	s := testSchema(t)
	a := entityChain(t, s, "app::Person")
	b := entityChain(t, s, "app::Person")

	bo := &ir.BinOp{
		Left: &ir.BinOp{
			Left:  arefOf(t, s, a, "app::age"),
			Op:    ir.OpEq,
			Right: ir.Param(0, nil),
		},
		Op: ir.OpAnd,
		Right: &ir.BinOp{
			Left:  arefOf(t, s, b, "app::name"),
			Op:    ir.OpEq,
			Right: ir.Param(0, nil),
		},
	}
	_, err := InferArgTypes(bo, s)
	require.Error(t, err)
	assert.True(t, IsAmbiguousParamError(err))
	assert.Contains(t, err.Error(), "$0")
	assert.Contains(t, err.Error(), "std::int")
	assert.Contains(t, err.Error(), "std::str")
}

func TestInferArgTypesUnsupportedOperator(t *testing.T) {
	s := testSchema(t)
	person := entityChain(t, s, "app::Person")

	bo := &ir.BinOp{
		Left:  person,
		Op:    ir.OpUnion,
		Right: ir.Param(0, nil),
	}
	_, err := InferArgTypes(bo, s)
	require.Error(t, err)
	assert.True(t, IsUnsupportedOperatorError(err))
}

func TestInferArgTypesUntypedOperand(t *testing.T) {
	s := testSchema(t)

	bo := &ir.BinOp{
		Left:  &ir.Sequence{},
		Op:    ir.OpEq,
		Right: ir.Param(0, nil),
	}
	_, err := InferArgTypes(bo, s)
	require.Error(t, err)
	var ae *AnalysisError
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, ErrCodeUntypedExpr, ae.Code)
}
