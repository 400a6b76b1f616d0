package harness

import (
	"fmt"
	"sort"
	"strings"

	"github.com/quernlang/quern/internal/ir"
	"github.com/quernlang/quern/internal/schema"
	"github.com/quernlang/quern/internal/sema"
)

// Report is the rendered analysis of one fixture.
type Report struct {
	Name string `json:"name"`

	// Type is the inferred result type name, or "<none>".
	Type string `json:"type"`

	// TypeError is set when type inference failed.
	TypeError string `json:"type_error,omitempty"`

	// Sources lists the schema entities the expression reads, sorted.
	Sources []string `json:"sources,omitempty"`

	// Params maps parameter indexes to inferred type names.
	Params map[int]string `json:"params,omitempty"`

	// ParamError is set when argument inference failed.
	ParamError string `json:"param_error,omitempty"`

	// Paths lists the path index keys with member counts, sorted.
	Paths []PathEntry `json:"paths,omitempty"`

	// Prefixes lists the prefix index keys with member counts, sorted.
	Prefixes []PathEntry `json:"prefixes,omitempty"`

	// PrefixError is set when prefix extraction failed.
	PrefixError string `json:"prefix_error,omitempty"`
}

// PathEntry is one path index bucket.
type PathEntry struct {
	Key   string `json:"key"`
	Count int    `json:"count"`
}

// Analyze runs the full analysis suite over a decoded fixture expression.
func Analyze(name string, expr ir.Node, s *schema.Schema) *Report {
	rep := &Report{Name: name}

	typ, err := sema.InferType(expr, s)
	switch {
	case err != nil:
		rep.TypeError = err.Error()
		rep.Type = "<error>"
	case typ == nil:
		rep.Type = "<none>"
	default:
		rep.Type = string(typ.TypeName())
	}

	for _, src := range sema.GetSourceReferences(expr) {
		rep.Sources = append(rep.Sources, string(src.TypeName()))
	}
	sort.Strings(rep.Sources)

	params, err := sema.InferArgTypes(expr, s)
	if err != nil {
		rep.ParamError = err.Error()
	} else if len(params) > 0 {
		rep.Params = make(map[int]string, len(params))
		for idx, typ := range params {
			rep.Params[idx] = string(typ.TypeName())
		}
	}

	rep.Paths = pathEntries(sema.GetPathIndex(expr))

	prefixes, err := sema.ExtractPrefixes(expr)
	if err != nil {
		rep.PrefixError = err.Error()
	} else {
		rep.Prefixes = pathEntries(prefixes)
	}

	return rep
}

func pathEntries(index ir.PathIndex) []PathEntry {
	entries := make([]PathEntry, 0, len(index))
	for _, key := range index.Keys() {
		entries = append(entries, PathEntry{Key: string(key), Count: index[key].Len()})
	}
	return entries
}

// Render formats the report as deterministic text.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "fixture: %s\n", r.Name)
	fmt.Fprintf(&b, "type: %s\n", r.Type)
	if r.TypeError != "" {
		fmt.Fprintf(&b, "type error: %s\n", r.TypeError)
	}

	if len(r.Sources) > 0 {
		b.WriteString("sources:\n")
		for _, src := range r.Sources {
			fmt.Fprintf(&b, "  - %s\n", src)
		}
	}

	if r.ParamError != "" {
		fmt.Fprintf(&b, "param error: %s\n", r.ParamError)
	} else if len(r.Params) > 0 {
		b.WriteString("params:\n")
		indexes := make([]int, 0, len(r.Params))
		for idx := range r.Params {
			indexes = append(indexes, idx)
		}
		sort.Ints(indexes)
		for _, idx := range indexes {
			fmt.Fprintf(&b, "  $%d: %s\n", idx, r.Params[idx])
		}
	}

	if len(r.Paths) > 0 {
		b.WriteString("paths:\n")
		for _, entry := range r.Paths {
			fmt.Fprintf(&b, "  %s: %d\n", entry.Key, entry.Count)
		}
	}

	if r.PrefixError != "" {
		fmt.Fprintf(&b, "prefix error: %s\n", r.PrefixError)
	} else if len(r.Prefixes) > 0 {
		b.WriteString("prefixes:\n")
		for _, entry := range r.Prefixes {
			fmt.Fprintf(&b, "  %s: %d\n", entry.Key, entry.Count)
		}
	}

	return b.String()
}
