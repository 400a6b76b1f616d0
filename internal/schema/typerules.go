package schema

import "sort"

// Operator is the key type for type-rule lookups. The language-level
// operator catalog lives with the IR; the rule table only needs a stable
// spelling to key on.
type Operator string

type binaryKey struct {
	op       Operator
	reversed bool
	left     Name
	right    Name
}

type unaryKey struct {
	op      Operator
	operand Name
}

// BinaryRule is one registered binary operator rule, exported for catalog
// serialization.
type BinaryRule struct {
	Op       Operator
	Reversed bool
	Left     Name
	Right    Name
	Result   Name
}

// UnaryRule is one registered unary operator rule.
type UnaryRule struct {
	Op      Operator
	Operand Name
	Result  Name
}

// TypeRules maps (operator, operand types) to result types. Non-commutative
// operators register a single "reversed" rule instead of a mirrored pair;
// inference consults the reversed table with swapped operands when the
// forward lookup misses.
type TypeRules struct {
	binary map[binaryKey]Name
	unary  map[unaryKey]Name
}

// NewTypeRules creates an empty rule table.
func NewTypeRules() *TypeRules {
	return &TypeRules{
		binary: make(map[binaryKey]Name),
		unary:  make(map[unaryKey]Name),
	}
}

// RegisterBinary adds a forward rule (op, left, right) -> result.
func (r *TypeRules) RegisterBinary(op Operator, left, right, result Name) {
	r.binary[binaryKey{op: op, left: NewName(string(left)), right: NewName(string(right))}] = result
}

// RegisterBinaryReversed adds a reversed rule, matched with swapped operand
// positions when the forward lookup fails.
func (r *TypeRules) RegisterBinaryReversed(op Operator, left, right, result Name) {
	r.binary[binaryKey{op: op, reversed: true, left: NewName(string(left)), right: NewName(string(right))}] = result
}

// RegisterUnary adds a rule (op, operand) -> result.
func (r *TypeRules) RegisterUnary(op Operator, operand, result Name) {
	r.unary[unaryKey{op: op, operand: NewName(string(operand))}] = result
}

func (r *TypeRules) lookupBinary(s *Schema, op Operator, reversed bool, left, right Type) (Type, error) {
	if left == nil || right == nil {
		return nil, nil
	}
	key := binaryKey{op: op, reversed: reversed, left: left.TypeName(), right: right.TypeName()}
	result, ok := r.binary[key]
	if !ok {
		return nil, nil
	}
	return s.Get(result)
}

// BinaryResult looks up the forward rule for (op, left, right).
// A missing rule yields (nil, nil); callers decide whether that is an error.
func (r *TypeRules) BinaryResult(s *Schema, op Operator, left, right Type) (Type, error) {
	return r.lookupBinary(s, op, false, left, right)
}

// ReversedBinaryResult looks up the reversed rule with operands already
// swapped by the caller.
func (r *TypeRules) ReversedBinaryResult(s *Schema, op Operator, left, right Type) (Type, error) {
	return r.lookupBinary(s, op, true, left, right)
}

// UnaryResult looks up the rule for (op, operand). Missing rules yield nil.
func (r *TypeRules) UnaryResult(s *Schema, op Operator, operand Type) (Type, error) {
	if operand == nil {
		return nil, nil
	}
	result, ok := r.unary[unaryKey{op: op, operand: operand.TypeName()}]
	if !ok {
		return nil, nil
	}
	return s.Get(result)
}

// Binary returns all binary rules in a deterministic order.
func (r *TypeRules) Binary() []BinaryRule {
	out := make([]BinaryRule, 0, len(r.binary))
	for k, result := range r.binary {
		out = append(out, BinaryRule{
			Op: k.op, Reversed: k.reversed, Left: k.left, Right: k.right, Result: result,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Op != b.Op {
			return a.Op < b.Op
		}
		if a.Reversed != b.Reversed {
			return !a.Reversed
		}
		if a.Left != b.Left {
			return a.Left < b.Left
		}
		return a.Right < b.Right
	})
	return out
}

// Unary returns all unary rules in a deterministic order.
func (r *TypeRules) Unary() []UnaryRule {
	out := make([]UnaryRule, 0, len(r.unary))
	for k, result := range r.unary {
		out = append(out, UnaryRule{Op: k.op, Operand: k.operand, Result: result})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Op != out[j].Op {
			return out[i].Op < out[j].Op
		}
		return out[i].Operand < out[j].Operand
	})
	return out
}

// registerStdRules installs the arithmetic and concatenation rules for the
// std scalars.
func registerStdRules(r *TypeRules) {
	arith := []Operator{"+", "-", "*", "/", "%"}
	for _, op := range arith {
		r.RegisterBinary(op, StdInt, StdInt, StdInt)
		r.RegisterBinary(op, StdFloat, StdFloat, StdFloat)
		r.RegisterBinary(op, StdDecimal, StdDecimal, StdDecimal)
		r.RegisterBinary(op, StdInt, StdFloat, StdFloat)
		r.RegisterBinary(op, StdFloat, StdInt, StdFloat)
		r.RegisterBinary(op, StdInt, StdDecimal, StdDecimal)
		r.RegisterBinary(op, StdDecimal, StdInt, StdDecimal)
	}
	// String concatenation is non-commutative with mixed operands, so the
	// str+str rule is forward and nothing else is registered for "+" on str.
	r.RegisterBinary("+", StdStr, StdStr, StdStr)
	r.RegisterBinary("AND", StdBool, StdBool, StdBool)
	r.RegisterBinary("OR", StdBool, StdBool, StdBool)
	r.RegisterUnary("-", StdInt, StdInt)
	r.RegisterUnary("-", StdFloat, StdFloat)
	r.RegisterUnary("-", StdDecimal, StdDecimal)
	r.RegisterUnary("NOT", StdBool, StdBool)
}
