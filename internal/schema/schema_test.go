package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSeedsStdTypes(t *testing.T) {
	s := New()
	for _, name := range []Name{
		StdStr, StdBool, StdInt, StdFloat, StdDecimal, StdDatetime, StdBytes,
	} {
		got, err := s.Get(name)
		require.NoError(t, err)
		_, ok := got.(*Atom)
		assert.True(t, ok, "%s should be an atom", name)
	}
}

func TestGetNotFound(t *testing.T) {
	s := New()
	_, err := s.Get("app::Missing")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "type", nf.Kind)
	assert.Equal(t, Name("app::Missing"), nf.Name)
}

func TestMustGetPanics(t *testing.T) {
	s := New()
	assert.Panics(t, func() { s.MustGet("app::Missing") })
}

func TestAddTypeRejectsDuplicates(t *testing.T) {
	s := New()
	require.NoError(t, s.AddType(NewConcept("app::Person")))
	err := s.AddType(NewConcept("app::Person"))
	assert.ErrorContains(t, err, "already defined")
}

func TestFunctions(t *testing.T) {
	s := New()
	count := NewFunction("std::count", s.MustGet(StdInt))
	require.NoError(t, s.AddFunction(count))
	assert.ErrorContains(t, s.AddFunction(count), "already defined")

	got, err := s.Function("std::count")
	require.NoError(t, err)
	assert.Same(t, count, got)

	_, err = s.Function("std::missing")
	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "function", nf.Kind)
}

func TestDefinePointerSharesGenericLink(t *testing.T) {
	s := New()
	person := NewConcept("app::Person")
	pet := NewConcept("app::Pet")
	require.NoError(t, s.AddType(person))
	require.NoError(t, s.AddType(pet))

	a, err := s.DefinePointer(person, "app::name", s.MustGet(StdStr))
	require.NoError(t, err)
	b, err := s.DefinePointer(pet, "app::name", s.MustGet(StdStr))
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Same(t, a.Topmost(), b.Topmost())

	// The generic link is registered under the pointer name.
	got, err := s.Get("app::name")
	require.NoError(t, err)
	assert.Same(t, Type(a.Topmost()), got)
}

func TestDefinePointerNameCollision(t *testing.T) {
	s := New()
	person := NewConcept("app::Person")
	require.NoError(t, s.AddType(person))

	_, err := s.DefinePointer(person, "app::Person", s.MustGet(StdStr))
	assert.ErrorContains(t, err, "non-link type")
}

func TestResolvePointerLookInChildren(t *testing.T) {
	s := New()
	person := NewConcept("app::Person")
	require.NoError(t, s.AddType(person))
	student := NewConcept("app::Student", person)
	require.NoError(t, s.AddType(student))

	school, err := s.DefinePointer(student, "app::school", s.MustGet(StdStr))
	require.NoError(t, err)

	assert.Nil(t, s.ResolvePointer(person, "app::school", false))
	assert.Same(t, school, s.ResolvePointer(person, "app::school", true))
	assert.Same(t, school, s.ResolvePointer(student, "app::school", false))
}

func TestChildren(t *testing.T) {
	s := New()
	person := NewConcept("app::Person")
	require.NoError(t, s.AddType(person))
	teacher := NewConcept("app::Teacher", person)
	student := NewConcept("app::Student", person)
	require.NoError(t, s.AddType(teacher))
	require.NoError(t, s.AddType(student))
	require.NoError(t, s.AddType(NewConcept("app::Pet")))

	kids := s.Children(person)
	require.Len(t, kids, 2)
	assert.Same(t, student, kids[0]) // name order
	assert.Same(t, teacher, kids[1])
}

func TestConceptsListing(t *testing.T) {
	s := New()
	require.NoError(t, s.AddType(NewConcept("app::Pet")))
	require.NoError(t, s.AddType(NewConcept("app::Person")))

	concepts := s.Concepts()
	require.Len(t, concepts, 2)
	assert.Equal(t, Name("app::Person"), concepts[0].TypeName())
	assert.Equal(t, Name("app::Pet"), concepts[1].TypeName())
}
