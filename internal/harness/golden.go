package harness

import (
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/quernlang/quern/internal/schema"
)

// AssertGolden renders the report and compares it against
// testdata/golden/{name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
func AssertGolden(t *testing.T, rep *Report) {
	t.Helper()
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, rep.Name, []byte(rep.Render()))
}

// RunWithGolden loads a fixture file, decodes and analyzes it against the
// catalog, and asserts the rendered report against its golden file.
func RunWithGolden(t *testing.T, path string, s *schema.Schema) {
	t.Helper()
	fixture, err := LoadFixture(path)
	if err != nil {
		t.Fatalf("load %s: %v", path, err)
	}
	expr, err := NewDecoder(s).Decode(fixture)
	if err != nil {
		t.Fatalf("decode %s: %v", fixture.Name, err)
	}
	AssertGolden(t, Analyze(fixture.Name, expr, s))
}
