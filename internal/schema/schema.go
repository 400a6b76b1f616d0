package schema

import "fmt"

// Std builtin type names. Every schema created by New carries these.
const (
	StdStr      Name = "std::str"
	StdBool     Name = "std::bool"
	StdInt      Name = "std::int"
	StdFloat    Name = "std::float"
	StdDecimal  Name = "std::decimal"
	StdDatetime Name = "std::datetime"
	StdBytes    Name = "std::bytes"
)

// NotFoundError reports a failed catalog lookup.
type NotFoundError struct {
	Kind string // "type" or "function"
	Name Name
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("schema: %s %q is not defined", e.Kind, e.Name)
}

// Schema is an in-memory catalog snapshot: named types, functions, and the
// operator type-rule table.
type Schema struct {
	types map[Name]Type
	funcs map[Name]*Function
	rules *TypeRules
}

// New creates a schema preloaded with the std scalar types and the std
// operator rules.
func New() *Schema {
	s := &Schema{
		types: make(map[Name]Type),
		funcs: make(map[Name]*Function),
		rules: NewTypeRules(),
	}
	for _, name := range []Name{
		StdStr, StdBool, StdInt, StdFloat, StdDecimal, StdDatetime, StdBytes,
	} {
		s.types[name] = NewAtom(name, nil)
	}
	registerStdRules(s.rules)
	return s
}

// Get resolves a qualified name to a type handle.
func (s *Schema) Get(name Name) (Type, error) {
	t, ok := s.types[NewName(string(name))]
	if !ok {
		return nil, &NotFoundError{Kind: "type", Name: name}
	}
	return t, nil
}

// MustGet resolves a name that is known to exist (std builtins). A failure
// is a catalog construction bug, not user input, so it panics.
func (s *Schema) MustGet(name Name) Type {
	t, err := s.Get(name)
	if err != nil {
		panic(err)
	}
	return t
}

// AddType registers a named type. Re-registration of a name is rejected.
func (s *Schema) AddType(t Type) error {
	name := t.TypeName()
	if _, exists := s.types[name]; exists {
		return fmt.Errorf("schema: type %q is already defined", name)
	}
	s.types[name] = t
	return nil
}

// Function resolves a function by qualified name.
func (s *Schema) Function(name Name) (*Function, error) {
	f, ok := s.funcs[NewName(string(name))]
	if !ok {
		return nil, &NotFoundError{Kind: "function", Name: name}
	}
	return f, nil
}

// AddFunction registers a callable.
func (s *Schema) AddFunction(f *Function) error {
	name := f.FunctionName()
	if _, exists := s.funcs[name]; exists {
		return fmt.Errorf("schema: function %q is already defined", name)
	}
	s.funcs[name] = f
	return nil
}

// Rules returns the operator type-rule table.
func (s *Schema) Rules() *TypeRules { return s.rules }

// Children returns the concepts directly deriving from c, in name order.
func (s *Schema) Children(c *Concept) []*Concept {
	var out []*Concept
	for _, name := range sortedNames(s.types) {
		child, ok := s.types[name].(*Concept)
		if !ok {
			continue
		}
		for _, base := range child.Bases {
			if base == c {
				out = append(out, child)
				break
			}
		}
	}
	return out
}

// DefinePointer adds a pointer named name on concept, targeting target.
// The specialized link derives from a schema-wide generic link of the same
// name, creating it on first use; path identities normalize specialized
// links to that generic form.
func (s *Schema) DefinePointer(concept *Concept, name Name, target Type) (*Link, error) {
	name = NewName(string(name))
	var generic *Link
	if t, ok := s.types[name]; ok {
		generic, ok = t.(*Link)
		if !ok {
			return nil, fmt.Errorf(
				"schema: %q is already defined as a non-link type", name)
		}
	} else {
		generic = NewLink(name, nil, nil, nil)
		s.types[name] = generic
	}
	ptr := NewLink(name, generic, concept, target)
	concept.Pointers[name] = ptr
	return ptr, nil
}

// ResolvePointer resolves name against concept, searching own and inherited
// pointers and, when lookInChildren is set, pointers defined on descendant
// concepts. Returns nil when nothing matches.
func (s *Schema) ResolvePointer(concept *Concept, name Name, lookInChildren bool) *Link {
	name = NewName(string(name))
	if ptr := concept.Pointer(name); ptr != nil {
		return ptr
	}
	if !lookInChildren {
		return nil
	}
	for _, child := range s.Children(concept) {
		if ptr := s.ResolvePointer(child, name, true); ptr != nil {
			return ptr
		}
	}
	return nil
}

// Types returns all registered types in name order.
func (s *Schema) Types() []Type {
	out := make([]Type, 0, len(s.types))
	for _, name := range sortedNames(s.types) {
		out = append(out, s.types[name])
	}
	return out
}

// Functions returns all registered functions in name order.
func (s *Schema) Functions() []*Function {
	out := make([]*Function, 0, len(s.funcs))
	for _, name := range sortedNames(s.funcs) {
		out = append(out, s.funcs[name])
	}
	return out
}

// Concepts returns all registered concepts in name order.
func (s *Schema) Concepts() []*Concept {
	var out []*Concept
	for _, t := range s.Types() {
		if c, ok := t.(*Concept); ok {
			out = append(out, c)
		}
	}
	return out
}
