package harness

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quernlang/quern/internal/ir"
)

func TestFixtureGoldens(t *testing.T) {
	s, err := DemoCatalog()
	require.NoError(t, err)

	paths, err := filepath.Glob(filepath.Join("testdata", "fixtures", "*.yaml"))
	require.NoError(t, err)
	require.NotEmpty(t, paths, "no fixtures found")

	for _, path := range paths {
		name := strings.TrimSuffix(filepath.Base(path), ".yaml")
		t.Run(name, func(t *testing.T) {
			RunWithGolden(t, path, s)
		})
	}
}

func TestParseFixtureErrors(t *testing.T) {
	_, err := ParseFixture([]byte("expr:\n  const: {value: 1, type: std::int}\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing name")

	_, err = ParseFixture([]byte("name: no_expr\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing expr")

	_, err = ParseFixture([]byte("{not yaml"))
	require.Error(t, err)
}

func TestDecodeEntityChain(t *testing.T) {
	s, err := DemoCatalog()
	require.NoError(t, err)

	f, err := ParseFixture([]byte(`
name: chain
expr:
  entity:
    concept: app::Person
    via:
      - link: app::owns
`))
	require.NoError(t, err)

	node, err := NewDecoder(s).Decode(f)
	require.NoError(t, err)

	leaf, ok := node.(*ir.EntitySet)
	require.True(t, ok)
	assert.Equal(t, "app::Pet", string(leaf.Concept.TypeName()))
	require.NotNil(t, leaf.RLink)
	assert.Equal(t, "app::owns", string(leaf.RLink.LinkProto.TypeName()))
	require.NotNil(t, leaf.ID)
	assert.Equal(t, "app::Person[>app::owns]app::Pet", string(leaf.ID.Key()))

	root := leaf.RLink.Source
	require.NotNil(t, root)
	assert.Equal(t, "app::Person", string(root.ID.Key()))
	require.NotNil(t, root.Disjunction)
	assert.Equal(t, 1, root.Disjunction.Paths.Len())
}

func TestDecodeErrors(t *testing.T) {
	s, err := DemoCatalog()
	require.NoError(t, err)
	d := NewDecoder(s)

	cases := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown concept",
			yaml: "name: x\nexpr:\n  entity: {concept: app::Ghost}\n",
			want: "app::Ghost",
		},
		{
			name: "unknown pointer",
			yaml: "name: x\nexpr:\n  aref:\n    entity: {concept: app::Pet}\n    name: app::age\n",
			want: "no pointer",
		},
		{
			name: "linkprop without traversal",
			yaml: "name: x\nexpr:\n  linkprop:\n    entity: {concept: app::Person}\n    name: app::since\n",
			want: "needs a traversal step",
		},
		{
			name: "empty variant",
			yaml: "name: x\nexpr: {}\n",
			want: "no variant",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f, err := ParseFixture([]byte(tc.yaml))
			require.NoError(t, err)
			_, err = d.Decode(f)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestReportRenderStable(t *testing.T) {
	s, err := DemoCatalog()
	require.NoError(t, err)

	f, err := LoadFixture(filepath.Join("testdata", "fixtures", "pet_weight_param.yaml"))
	require.NoError(t, err)
	expr, err := NewDecoder(s).Decode(f)
	require.NoError(t, err)

	first := Analyze(f.Name, expr, s).Render()
	for i := 0; i < 10; i++ {
		expr2, err := NewDecoder(s).Decode(f)
		require.NoError(t, err)
		assert.Equal(t, first, Analyze(f.Name, expr2, s).Render())
	}
}
