package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quernlang/quern/internal/ir"
	"github.com/quernlang/quern/internal/schema"
)

// testSchema builds the catalog shared by the analysis tests: a Person
// owns Pets, and a Student is a kind of Person.
func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s := schema.New()

	person := schema.NewConcept("app::Person")
	pet := schema.NewConcept("app::Pet")
	student := schema.NewConcept("app::Student", person)
	for _, c := range []*schema.Concept{person, pet, student} {
		require.NoError(t, s.AddType(c))
	}

	define := func(c *schema.Concept, name schema.Name, target schema.Name) *schema.Link {
		ptr, err := s.DefinePointer(c, name, s.MustGet(target))
		require.NoError(t, err)
		return ptr
	}
	define(person, "app::name", schema.StdStr)
	define(person, "app::age", schema.StdInt)
	owns := define(person, "app::owns", "app::Pet")
	owns.Topmost().AddProperty(
		schema.NewLink("app::since", nil, owns.Topmost(), s.MustGet(schema.StdDatetime)))
	define(pet, "app::name", schema.StdStr)
	define(pet, "app::weight", schema.StdFloat)
	define(student, "app::school", schema.StdStr)

	require.NoError(t, s.AddFunction(
		schema.NewFunction("std::count", s.MustGet(schema.StdInt))))

	return s
}

// entityChain builds an entity-set chain from a root concept through the
// named links and returns the leaf, with identities assigned throughout.
func entityChain(t *testing.T, s *schema.Schema, root schema.Name, links ...schema.Name) *ir.EntitySet {
	t.Helper()
	concept, ok := s.MustGet(root).(*schema.Concept)
	require.True(t, ok, "%s is not a concept", root)

	current := &ir.EntitySet{Concept: concept}
	for _, name := range links {
		ptr := s.ResolvePointer(current.Concept, name, true)
		require.NotNil(t, ptr, "%s has no link %s", current.Concept.TypeName(), name)
		target, ok := ptr.Target.(*schema.Concept)
		require.True(t, ok, "%s does not target a concept", name)

		link := &ir.EntityLink{
			Source:    current,
			LinkProto: ptr,
			Direction: ir.Outbound,
		}
		current.Disjunction = ir.NewDisjunction(link)

		next := &ir.EntitySet{Concept: target, RLink: link}
		link.Target = next
		current = next
	}

	for es := current; es != nil; {
		es.ID = ir.PathID(es)
		if es.RLink == nil {
			break
		}
		es = es.RLink.Source
	}
	return current
}

// arefOf hangs a simple property reference off an entity set.
func arefOf(t *testing.T, s *schema.Schema, es *ir.EntitySet, name schema.Name) *ir.AtomicRefSimple {
	t.Helper()
	ptr := s.ResolvePointer(es.Concept, name, true)
	require.NotNil(t, ptr, "%s has no pointer %s", es.Concept.TypeName(), name)
	aref := &ir.AtomicRefSimple{Ref: es, Name: name, PtrProto: ptr}
	aref.ID = ir.RefPathID(aref)
	if es.AtomRefs == nil {
		es.AtomRefs = ir.NewNodeSet()
	}
	es.AtomRefs.Add(aref)
	return aref
}

func literal(value any, typ schema.Type) *ir.Constant {
	return &ir.Constant{Value: value, Type: typ}
}
