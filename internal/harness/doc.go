// Package harness provides the analysis test tooling shared by the CLI
// and the test suite: a YAML fixture format that describes IR expression
// trees against a schema catalog, and a deterministic text report over the
// semantic analyses, suitable for golden-file comparison.
package harness
