package ir

// Operator is a query-language operator. The spelling doubles as the key
// used by the schema type-rule table.
type Operator string

// Binary and unary operators.
const (
	OpEq Operator = "="
	OpNE Operator = "!="
	OpGT Operator = ">"
	OpGE Operator = ">="
	OpLT Operator = "<"
	OpLE Operator = "<="

	OpAdd Operator = "+"
	OpSub Operator = "-"
	OpMul Operator = "*"
	OpDiv Operator = "/"
	OpMod Operator = "%"
	OpPow Operator = "^"

	OpAnd Operator = "AND"
	OpOr  Operator = "OR"
	OpNot Operator = "NOT"

	OpIn    Operator = "IN"
	OpNotIn Operator = "NOT IN"

	OpIs    Operator = "IS"
	OpIsNot Operator = "IS NOT"

	OpLike  Operator = "LIKE"
	OpMatch Operator = "~"

	OpUnion Operator = "UNION"
	OpNeg   Operator = "-" // unary minus, shares the OpSub spelling
)

// OperatorClass groups operators by their inference behavior.
type OperatorClass int

const (
	ClassUnknown OperatorClass = iota
	ClassComparison
	ClassArithmetic
	ClassBoolean
	ClassMembership
	ClassTypeCheck
	ClassMatch
	ClassSetOp
)

// Class returns the operator's inference class.
func (op Operator) Class() OperatorClass {
	switch op {
	case OpEq, OpNE, OpGT, OpGE, OpLT, OpLE:
		return ClassComparison
	case OpAdd, OpSub, OpMul, OpDiv, OpMod, OpPow:
		return ClassArithmetic
	case OpAnd, OpOr, OpNot:
		return ClassBoolean
	case OpIn, OpNotIn:
		return ClassMembership
	case OpIs, OpIsNot:
		return ClassTypeCheck
	case OpLike, OpMatch:
		return ClassMatch
	case OpUnion:
		return ClassSetOp
	default:
		return ClassUnknown
	}
}

// IsWeakOp reports whether op combines operand paths with any-of rather
// than all-of semantics during path extraction.
func IsWeakOp(op Operator) bool {
	return op == OpOr || op == OpIn || op == OpNotIn
}

// Direction is the traversal direction of a link step.
type Direction string

const (
	Outbound Direction = ">"
	Inbound  Direction = "<"
)

// SortDirection orders sort expressions.
type SortDirection string

const (
	SortAsc  SortDirection = "ASC"
	SortDesc SortDirection = "DESC"
)
