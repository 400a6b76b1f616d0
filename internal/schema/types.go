package schema

import (
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Name is a qualified schema name in "module::short" form.
// Names are NFC-normalized so that catalog lookups are insensitive to
// Unicode composition differences in source text.
type Name string

// NewName normalizes a raw qualified name.
func NewName(s string) Name {
	return Name(norm.NFC.String(s))
}

// Module returns the module part of the name, or "" for unqualified names.
func (n Name) Module() string {
	if i := strings.Index(string(n), "::"); i >= 0 {
		return string(n[:i])
	}
	return ""
}

// Short returns the name without its module qualifier.
func (n Name) Short() string {
	if i := strings.Index(string(n), "::"); i >= 0 {
		return string(n[i+2:])
	}
	return string(n)
}

// Type is the closed set of catalog type handles. Only types in this
// package implement it.
type Type interface {
	TypeName() Name
	schemaType() // marker - seals interface to this package
}

// Equal reports whether two type handles denote the same type.
// Named types compare by identity within a schema; collection types are
// constructed ad hoc, so comparison falls back to the canonical name.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	return a.TypeName() == b.TypeName()
}

// Atom is a scalar type, optionally derived from a base scalar.
type Atom struct {
	name Name
	Base *Atom
}

// NewAtom creates a scalar type.
func NewAtom(name Name, base *Atom) *Atom {
	return &Atom{name: NewName(string(name)), Base: base}
}

func (a *Atom) TypeName() Name { return a.name }
func (a *Atom) schemaType()    {}

// Concept is an object type: a node in the traversal graph. It owns a
// pointer table mapping pointer names to specialized links.
type Concept struct {
	name     Name
	Bases    []*Concept
	Pointers map[Name]*Link
}

// NewConcept creates an object type deriving from the given bases.
func NewConcept(name Name, bases ...*Concept) *Concept {
	return &Concept{
		name:     NewName(string(name)),
		Bases:    bases,
		Pointers: make(map[Name]*Link),
	}
}

func (c *Concept) TypeName() Name { return c.name }
func (c *Concept) schemaType()    {}

// Pointer returns the named pointer defined on this concept or inherited
// from a base, or nil.
func (c *Concept) Pointer(name Name) *Link {
	if ptr, ok := c.Pointers[name]; ok {
		return ptr
	}
	for _, base := range c.Bases {
		if ptr := base.Pointer(name); ptr != nil {
			return ptr
		}
	}
	return nil
}

// Link is an edge type. A generic link (Base == nil) is the abstract,
// concept-independent form; a specialized link binds the generic link to a
// concrete source concept and target type. Properties hold link properties,
// themselves modeled as links targeting atoms.
type Link struct {
	name       Name
	Base       *Link
	Source     Type
	Target     Type
	Properties map[Name]*Link
}

// NewLink creates a link type. base is nil for a generic link.
func NewLink(name Name, base *Link, source, target Type) *Link {
	return &Link{
		name:       NewName(string(name)),
		Base:       base,
		Source:     source,
		Target:     target,
		Properties: make(map[Name]*Link),
	}
}

func (l *Link) TypeName() Name { return l.name }
func (l *Link) schemaType()    {}

// Generic reports whether this is the abstract form of the link.
func (l *Link) Generic() bool { return l.Base == nil }

// Topmost returns the generic link at the root of the specialization chain.
func (l *Link) Topmost() *Link {
	top := l
	for top.Base != nil {
		top = top.Base
	}
	return top
}

// Property resolves a link property on this link or its bases, or nil.
func (l *Link) Property(name Name) *Link {
	if p, ok := l.Properties[name]; ok {
		return p
	}
	if l.Base != nil {
		return l.Base.Property(name)
	}
	return nil
}

// AddProperty defines a link property.
func (l *Link) AddProperty(p *Link) {
	l.Properties[p.TypeName()] = p
}

// CollectionKind discriminates collection type constructors.
type CollectionKind int

const (
	SetKind CollectionKind = iota
	ArrayKind
	TupleKind
)

func (k CollectionKind) String() string {
	switch k {
	case SetKind:
		return "set"
	case ArrayKind:
		return "array"
	case TupleKind:
		return "tuple"
	default:
		return fmt.Sprintf("CollectionKind(%d)", int(k))
	}
}

// CollectionKindFromName maps a cast main-type name to a collection kind.
func CollectionKindFromName(name Name) (CollectionKind, bool) {
	switch string(name) {
	case "set":
		return SetKind, true
	case "array":
		return ArrayKind, true
	case "tuple":
		return TupleKind, true
	default:
		return 0, false
	}
}

// Collection is a constructed type: a set, array, or tuple of subtypes.
// Collections are created ad hoc by inference and casts; they are not
// registered in the schema and compare by canonical name.
type Collection struct {
	Kind     CollectionKind
	Subtypes []Type
}

// NewSet builds the set-of(elem) collection used by membership inference.
func NewSet(elem Type) *Collection {
	return &Collection{Kind: SetKind, Subtypes: []Type{elem}}
}

// NewCollection builds a collection from explicit subtypes.
func NewCollection(kind CollectionKind, subtypes []Type) *Collection {
	return &Collection{Kind: kind, Subtypes: subtypes}
}

func (c *Collection) TypeName() Name {
	names := make([]string, len(c.Subtypes))
	for i, t := range c.Subtypes {
		if t == nil {
			names[i] = "null"
			continue
		}
		names[i] = string(t.TypeName())
	}
	return Name(fmt.Sprintf("%s<%s>", c.Kind, strings.Join(names, ", ")))
}

func (c *Collection) schemaType() {}

// Function is a callable registered in the catalog. Argument types are not
// modeled; inference uses the declared return type only.
type Function struct {
	name       Name
	ReturnType Type
}

// NewFunction creates a function object.
func NewFunction(name Name, returnType Type) *Function {
	return &Function{name: NewName(string(name)), ReturnType: returnType}
}

func (f *Function) FunctionName() Name { return f.name }

// ancestry returns the inheritance chain of t starting at t itself.
// Concepts use depth-first base order; atoms and links follow their single
// base chain. Collections have no ancestry.
func ancestry(t Type) []Type {
	switch t := t.(type) {
	case *Atom:
		var out []Type
		for a := t; a != nil; a = a.Base {
			out = append(out, a)
		}
		return out
	case *Link:
		var out []Type
		for l := t; l != nil; l = l.Base {
			out = append(out, l)
		}
		return out
	case *Concept:
		var out []Type
		seen := make(map[*Concept]bool)
		var walk func(*Concept)
		walk = func(c *Concept) {
			if seen[c] {
				return
			}
			seen[c] = true
			out = append(out, c)
			for _, base := range c.Bases {
				walk(base)
			}
		}
		walk(t)
		return out
	default:
		return []Type{t}
	}
}

// NearestCommonAncestor returns the closest type that every candidate
// derives from (a candidate itself may be the answer), or nil when the
// candidates share no ancestor.
func NearestCommonAncestor(types []Type) Type {
	if len(types) == 0 {
		return nil
	}
	first := ancestry(types[0])
	for _, anc := range first {
		common := true
		for _, t := range types[1:] {
			found := false
			for _, other := range ancestry(t) {
				if Equal(anc, other) {
					found = true
					break
				}
			}
			if !found {
				common = false
				break
			}
		}
		if common {
			return anc
		}
	}
	return nil
}

// sortedNames returns map keys in lexical order for deterministic iteration.
func sortedNames[V any](m map[Name]V) []Name {
	keys := make([]Name, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
