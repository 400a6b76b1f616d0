package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quernlang/quern/internal/schema"
)

func buildCatalog(t *testing.T) *schema.Schema {
	t.Helper()
	cat := schema.New()

	temp := schema.NewAtom("app::temperature",
		cat.MustGet(schema.StdFloat).(*schema.Atom))
	require.NoError(t, cat.AddType(temp))

	person := schema.NewConcept("app::Person")
	pet := schema.NewConcept("app::Pet")
	require.NoError(t, cat.AddType(person))
	require.NoError(t, cat.AddType(pet))
	student := schema.NewConcept("app::Student", person)
	require.NoError(t, cat.AddType(student))

	_, err := cat.DefinePointer(person, "app::name", cat.MustGet(schema.StdStr))
	require.NoError(t, err)
	owns, err := cat.DefinePointer(person, "app::owns", pet)
	require.NoError(t, err)
	_, err = cat.DefinePointer(student, "app::school", cat.MustGet(schema.StdStr))
	require.NoError(t, err)

	generic := owns.Topmost()
	generic.AddProperty(schema.NewLink("app::since", nil, generic,
		cat.MustGet(schema.StdDatetime)))

	cat.Rules().RegisterBinary("+", "app::temperature", "app::temperature",
		"app::temperature")
	cat.Rules().RegisterBinaryReversed("-", schema.StdInt, schema.StdDatetime,
		schema.StdDatetime)
	cat.Rules().RegisterUnary("-", "app::temperature", "app::temperature")

	require.NoError(t, cat.AddFunction(
		schema.NewFunction("std::count", cat.MustGet(schema.StdInt))))
	return cat
}

func openStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	cat := buildCatalog(t)

	require.NoError(t, st.Save(ctx, cat))
	loaded, err := st.Load(ctx)
	require.NoError(t, err)

	// Atom with base chain.
	tempType, err := loaded.Get("app::temperature")
	require.NoError(t, err)
	temp, ok := tempType.(*schema.Atom)
	require.True(t, ok)
	require.NotNil(t, temp.Base)
	assert.Equal(t, schema.Name(schema.StdFloat), temp.Base.TypeName())

	// Concept bases.
	studentType, err := loaded.Get("app::Student")
	require.NoError(t, err)
	student := studentType.(*schema.Concept)
	require.Len(t, student.Bases, 1)
	assert.Equal(t, schema.Name("app::Person"), student.Bases[0].TypeName())

	// Own and inherited pointers.
	person := student.Bases[0]
	name := person.Pointer("app::name")
	require.NotNil(t, name)
	assert.Equal(t, schema.Name(schema.StdStr), name.Target.TypeName())
	assert.NotNil(t, student.Pointer("app::name"))
	assert.NotNil(t, student.Pointer("app::school"))
	assert.Nil(t, person.Pointers["app::school"])

	// Link property on the generic link.
	owns := person.Pointer("app::owns")
	require.NotNil(t, owns)
	since := owns.Property("app::since")
	require.NotNil(t, since)
	assert.Equal(t, schema.Name(schema.StdDatetime), since.Target.TypeName())

	// Functions.
	fn, err := loaded.Function("std::count")
	require.NoError(t, err)
	assert.Equal(t, schema.Name(schema.StdInt), fn.ReturnType.TypeName())
}

func TestSaveLoadTypeRules(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)
	cat := buildCatalog(t)

	require.NoError(t, st.Save(ctx, cat))
	loaded, err := st.Load(ctx)
	require.NoError(t, err)

	temp := loaded.MustGet("app::temperature")

	got, err := loaded.Rules().BinaryResult(loaded, "+", temp, temp)
	require.NoError(t, err)
	assert.Equal(t, temp, got)

	dt := loaded.MustGet(schema.StdDatetime)
	got, err = loaded.Rules().ReversedBinaryResult(loaded, "-",
		loaded.MustGet(schema.StdInt), dt)
	require.NoError(t, err)
	assert.Equal(t, dt, got)

	got, err = loaded.Rules().UnaryResult(loaded, "-", temp)
	require.NoError(t, err)
	assert.Equal(t, temp, got)

	// Std rules survive via schema.New, not the snapshot.
	intType := loaded.MustGet(schema.StdInt)
	got, err = loaded.Rules().BinaryResult(loaded, "*", intType, intType)
	require.NoError(t, err)
	assert.Equal(t, intType, got)
}

func TestSaveReplacesPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	st := openStore(t)

	first := schema.New()
	require.NoError(t, first.AddType(schema.NewConcept("app::Old")))
	require.NoError(t, st.Save(ctx, first))

	second := schema.New()
	require.NoError(t, second.AddType(schema.NewConcept("app::New")))
	require.NoError(t, st.Save(ctx, second))

	loaded, err := st.Load(ctx)
	require.NoError(t, err)
	_, err = loaded.Get("app::Old")
	assert.Error(t, err)
	_, err = loaded.Get("app::New")
	assert.NoError(t, err)
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	assert.NoError(t, st.Close())
}
