package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/quernlang/quern/internal/ir"
	"github.com/quernlang/quern/internal/schema"
)

// Fixture is one analysis scenario: a named expression over a catalog.
type Fixture struct {
	// Name identifies the fixture in reports and golden files.
	Name string `yaml:"name"`

	// Description explains what the expression exercises.
	Description string `yaml:"description,omitempty"`

	// Expr is the expression tree.
	Expr *ExprSpec `yaml:"expr"`

	// Params supplies literal values for InlineConstants, keyed by
	// parameter index.
	Params map[int]any `yaml:"params,omitempty"`
}

// ExprSpec is the YAML form of an IR expression. Exactly one field must be
// set.
type ExprSpec struct {
	BinOp    *BinOpSpec    `yaml:"binop,omitempty"`
	UnOp     *UnOpSpec     `yaml:"unop,omitempty"`
	Entity   *EntitySpec   `yaml:"entity,omitempty"`
	ARef     *ARefSpec     `yaml:"aref,omitempty"`
	LinkProp *LinkPropSpec `yaml:"linkprop,omitempty"`
	Meta     *MetaSpec     `yaml:"meta,omitempty"`
	Const    *ConstSpec    `yaml:"const,omitempty"`
	Param    *ParamSpec    `yaml:"param,omitempty"`
	Call     *CallSpec     `yaml:"call,omitempty"`
	Exists   *ExprSpec     `yaml:"exists,omitempty"`
	Cast     *CastSpec     `yaml:"cast,omitempty"`
	Seq      []*ExprSpec   `yaml:"seq,omitempty"`
	Query    *QuerySpec    `yaml:"query,omitempty"`
	Subquery *QuerySpec    `yaml:"subquery,omitempty"`
}

// BinOpSpec is a binary operator application.
type BinOpSpec struct {
	Op    string    `yaml:"op"`
	Left  *ExprSpec `yaml:"left"`
	Right *ExprSpec `yaml:"right"`
}

// UnOpSpec is a unary operator application.
type UnOpSpec struct {
	Op   string    `yaml:"op"`
	Expr *ExprSpec `yaml:"expr"`
}

// EntitySpec is a root concept with an optional chain of link traversals;
// it denotes the leaf entity set of the chain.
type EntitySpec struct {
	Concept string     `yaml:"concept"`
	Via     []StepSpec `yaml:"via,omitempty"`
}

// StepSpec is one traversal step.
type StepSpec struct {
	Link      string `yaml:"link"`
	Direction string `yaml:"direction,omitempty"` // ">" (default) or "<"
}

// ARefSpec references a property of an entity.
type ARefSpec struct {
	Entity *EntitySpec `yaml:"entity"`
	Name   string      `yaml:"name"`
}

// LinkPropSpec references a property of the last link of an entity chain.
type LinkPropSpec struct {
	Entity *EntitySpec `yaml:"entity"`
	Name   string      `yaml:"name"`
}

// MetaSpec references type-level metadata of an entity.
type MetaSpec struct {
	Entity *EntitySpec `yaml:"entity"`
	Name   string      `yaml:"name"`
}

// ConstSpec is a typed literal.
type ConstSpec struct {
	Value any    `yaml:"value"`
	Type  string `yaml:"type"`
}

// ParamSpec is a query parameter reference.
type ParamSpec struct {
	Index int    `yaml:"index"`
	Type  string `yaml:"type,omitempty"`
}

// CallSpec is a function invocation.
type CallSpec struct {
	Name string      `yaml:"name"`
	Args []*ExprSpec `yaml:"args,omitempty"`
}

// CastSpec is a type cast.
type CastSpec struct {
	Type     string    `yaml:"type"`
	Subtypes []string  `yaml:"subtypes,omitempty"`
	Expr     *ExprSpec `yaml:"expr"`
}

// QuerySpec is a full query expression.
type QuerySpec struct {
	Where  *ExprSpec   `yaml:"where,omitempty"`
	Select []*ExprSpec `yaml:"select,omitempty"`
}

// LoadFixture reads and parses a fixture file.
func LoadFixture(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return ParseFixture(data)
}

// ParseFixture parses fixture YAML.
func ParseFixture(data []byte) (*Fixture, error) {
	var f Fixture
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	if f.Name == "" {
		return nil, fmt.Errorf("parse fixture: missing name")
	}
	if f.Expr == nil {
		return nil, fmt.Errorf("parse fixture %q: missing expr", f.Name)
	}
	return &f, nil
}

// Decoder builds IR trees from fixture specs against a schema catalog.
type Decoder struct {
	schema *schema.Schema
}

// NewDecoder creates a decoder over the given catalog.
func NewDecoder(s *schema.Schema) *Decoder {
	return &Decoder{schema: s}
}

// Decode builds the IR tree of a fixture.
func (d *Decoder) Decode(f *Fixture) (ir.Node, error) {
	return d.decodeExpr(f.Expr)
}

func (d *Decoder) decodeExpr(spec *ExprSpec) (ir.Node, error) {
	switch {
	case spec == nil:
		return nil, fmt.Errorf("decode: empty expression")

	case spec.BinOp != nil:
		left, err := d.decodeExpr(spec.BinOp.Left)
		if err != nil {
			return nil, err
		}
		right, err := d.decodeExpr(spec.BinOp.Right)
		if err != nil {
			return nil, err
		}
		return &ir.BinOp{Left: left, Op: ir.Operator(spec.BinOp.Op), Right: right}, nil

	case spec.UnOp != nil:
		expr, err := d.decodeExpr(spec.UnOp.Expr)
		if err != nil {
			return nil, err
		}
		return &ir.UnaryOp{Op: ir.Operator(spec.UnOp.Op), Expr: expr}, nil

	case spec.Entity != nil:
		return d.decodeEntity(spec.Entity)

	case spec.ARef != nil:
		leaf, err := d.decodeEntity(spec.ARef.Entity)
		if err != nil {
			return nil, err
		}
		name := schema.NewName(spec.ARef.Name)
		ptr := d.schema.ResolvePointer(leaf.Concept, name, true)
		if ptr == nil {
			return nil, fmt.Errorf("decode: %q has no pointer %q",
				leaf.Concept.TypeName(), name)
		}
		aref := &ir.AtomicRefSimple{Ref: leaf, Name: name, PtrProto: ptr}
		aref.ID = ir.RefPathID(aref)
		if leaf.AtomRefs == nil {
			leaf.AtomRefs = ir.NewNodeSet()
		}
		leaf.AtomRefs.Add(aref)
		return aref, nil

	case spec.LinkProp != nil:
		leaf, err := d.decodeEntity(spec.LinkProp.Entity)
		if err != nil {
			return nil, err
		}
		if leaf.RLink == nil {
			return nil, fmt.Errorf("decode: linkprop %q needs a traversal step", spec.LinkProp.Name)
		}
		name := schema.NewName(spec.LinkProp.Name)
		prop := leaf.RLink.LinkProto.Property(name)
		if prop == nil {
			return nil, fmt.Errorf("decode: link %q has no property %q",
				leaf.RLink.LinkProto.TypeName(), name)
		}
		return &ir.LinkPropRefSimple{Ref: leaf.RLink, Name: name, PtrProto: prop}, nil

	case spec.Meta != nil:
		leaf, err := d.decodeEntity(spec.Meta.Entity)
		if err != nil {
			return nil, err
		}
		return &ir.MetaRef{Ref: leaf, Name: spec.Meta.Name}, nil

	case spec.Const != nil:
		typ, err := d.schema.Get(schema.Name(spec.Const.Type))
		if err != nil {
			return nil, fmt.Errorf("decode const: %w", err)
		}
		return &ir.Constant{Value: spec.Const.Value, Type: typ}, nil

	case spec.Param != nil:
		var typ schema.Type
		if spec.Param.Type != "" {
			var err error
			typ, err = d.schema.Get(schema.Name(spec.Param.Type))
			if err != nil {
				return nil, fmt.Errorf("decode param: %w", err)
			}
		}
		return ir.Param(spec.Param.Index, typ), nil

	case spec.Call != nil:
		args := make([]ir.Node, len(spec.Call.Args))
		for i, argSpec := range spec.Call.Args {
			arg, err := d.decodeExpr(argSpec)
			if err != nil {
				return nil, err
			}
			args[i] = arg
		}
		return &ir.FunctionCall{Name: schema.NewName(spec.Call.Name), Args: args}, nil

	case spec.Exists != nil:
		expr, err := d.decodeExpr(spec.Exists)
		if err != nil {
			return nil, err
		}
		return &ir.ExistPred{Expr: expr}, nil

	case spec.Cast != nil:
		expr, err := d.decodeExpr(spec.Cast.Expr)
		if err != nil {
			return nil, err
		}
		ref := ir.TypeRef{MainType: schema.NewName(spec.Cast.Type)}
		for _, sub := range spec.Cast.Subtypes {
			ref.Subtypes = append(ref.Subtypes, schema.NewName(sub))
		}
		return &ir.TypeCast{Expr: expr, Type: ref}, nil

	case len(spec.Seq) > 0:
		elements := make([]ir.Node, len(spec.Seq))
		for i, elemSpec := range spec.Seq {
			elem, err := d.decodeExpr(elemSpec)
			if err != nil {
				return nil, err
			}
			elements[i] = elem
		}
		return &ir.Sequence{Elements: elements}, nil

	case spec.Query != nil:
		return d.decodeQuery(spec.Query)

	case spec.Subquery != nil:
		query, err := d.decodeQuery(spec.Subquery)
		if err != nil {
			return nil, err
		}
		return &ir.SubgraphRef{Ref: query}, nil

	default:
		return nil, fmt.Errorf("decode: expression spec has no variant set")
	}
}

func (d *Decoder) decodeQuery(spec *QuerySpec) (*ir.GraphExpr, error) {
	query := &ir.GraphExpr{}
	if spec.Where != nil {
		generator, err := d.decodeExpr(spec.Where)
		if err != nil {
			return nil, err
		}
		query.Generator = generator
	}
	for _, selSpec := range spec.Select {
		sel, err := d.decodeExpr(selSpec)
		if err != nil {
			return nil, err
		}
		query.Selector = append(query.Selector, ir.SelectorExpr{Expr: sel})
	}
	return query, nil
}

// decodeEntity builds the entity-set chain of an entity spec and returns
// its leaf. Path identities are assigned along the chain.
func (d *Decoder) decodeEntity(spec *EntitySpec) (*ir.EntitySet, error) {
	if spec == nil {
		return nil, fmt.Errorf("decode: missing entity")
	}
	rootType, err := d.schema.Get(schema.Name(spec.Concept))
	if err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	concept, ok := rootType.(*schema.Concept)
	if !ok {
		return nil, fmt.Errorf("decode entity: %q is not a concept", spec.Concept)
	}

	current := &ir.EntitySet{Concept: concept}
	for _, step := range spec.Via {
		name := schema.NewName(step.Link)
		ptr := d.schema.ResolvePointer(current.Concept, name, true)
		if ptr == nil {
			return nil, fmt.Errorf("decode entity: %q has no link %q",
				current.Concept.TypeName(), name)
		}
		target, ok := ptr.Target.(*schema.Concept)
		if !ok {
			return nil, fmt.Errorf("decode entity: %q.%q does not target a concept",
				current.Concept.TypeName(), name)
		}

		direction := ir.Outbound
		if step.Direction == string(ir.Inbound) {
			direction = ir.Inbound
		}

		link := &ir.EntityLink{
			Source:    current,
			LinkProto: ptr,
			Direction: direction,
		}
		current.Disjunction = ir.NewDisjunction(link)

		next := &ir.EntitySet{Concept: target, RLink: link}
		link.Target = next
		current = next
	}

	// Assign identities from the root down.
	for es := current; es != nil; {
		es.ID = ir.PathID(es)
		if es.RLink == nil {
			break
		}
		es = es.RLink.Source
	}
	return current, nil
}
