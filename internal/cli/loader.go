package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"

	"github.com/quernlang/quern/internal/schema"
)

// LoadMode controls how errors are handled during catalog loading.
type LoadMode int

const (
	// LoadModeFailFast stops on the first error encountered.
	LoadModeFailFast LoadMode = iota
	// LoadModeCollectAll collects all errors before returning.
	LoadModeCollectAll
)

// LoadResult contains the results of loading a catalog from a directory.
type LoadResult struct {
	Schema    *schema.Schema
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during catalog loading.
type LoadError struct {
	Code    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // File write error
	ErrCodeStoreError  = "E008" // Catalog store error
	ErrCodeAnalysis    = "E009" // Semantic analysis error

	// Catalog validation errors
	ErrCodeBadAtom     = "E101" // Atom definition invalid
	ErrCodeBadConcept  = "E102" // Concept definition invalid
	ErrCodeBadPointer  = "E103" // Pointer definition invalid
	ErrCodeBadFunction = "E104" // Function definition invalid
	ErrCodeBadRule     = "E105" // Type rule invalid
)

// catalogDoc is the decoded shape of the "catalog" field of a CUE package.
type catalogDoc struct {
	Atoms map[string]struct {
		Base string `json:"base"`
	} `json:"atoms"`
	Concepts map[string]struct {
		Bases    []string `json:"bases"`
		Pointers map[string]struct {
			Target     string            `json:"target"`
			Properties map[string]string `json:"properties"`
		} `json:"pointers"`
	} `json:"concepts"`
	Functions map[string]struct {
		Returns string `json:"returns"`
	} `json:"functions"`
	Rules struct {
		Binary []struct {
			Op       string `json:"op"`
			Left     string `json:"left"`
			Right    string `json:"right"`
			Result   string `json:"result"`
			Reversed bool   `json:"reversed"`
		} `json:"binary"`
		Unary []struct {
			Op      string `json:"op"`
			Operand string `json:"operand"`
			Result  string `json:"result"`
		} `json:"unary"`
	} `json:"rules"`
}

// LoadCatalog loads a CUE catalog from a directory and builds a schema.
// If mode is LoadModeFailFast, returns on first error.
// If mode is LoadModeCollectAll, collects all errors.
func LoadCatalog(dir string, mode LoadMode) (*LoadResult, []error) {
	// Verify directory exists
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	// Find CUE files
	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	// Load CUE instances
	ctx := cuecontext.New()
	cfg := &load.Config{Dir: dir}
	instances := load.Instances([]string{"."}, cfg)
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}

	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	catalogVal := value.LookupPath(cue.ParsePath("catalog"))
	if !catalogVal.Exists() {
		return nil, []error{&LoadError{Code: ErrCodeGeneric, Message: "no catalog found in CUE package"}}
	}

	var doc catalogDoc
	if err := catalogVal.Decode(&doc); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("decoding catalog: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	s, errs := buildSchema(&doc, mode)
	result.Schema = s
	return result, errs
}

// buildSchema assembles a schema from a decoded catalog document. The std
// scalars and rules are always present; the document adds to them.
func buildSchema(doc *catalogDoc, mode LoadMode) (*schema.Schema, []error) {
	var errs []error
	fail := func(code, format string, args ...any) bool {
		errs = append(errs, &LoadError{Code: code, Message: fmt.Sprintf(format, args...)})
		return mode == LoadModeFailFast
	}

	s := schema.New()

	// Atoms first: two passes so bases can reference atoms defined later.
	atomNames := sortedKeys(doc.Atoms)
	for _, name := range atomNames {
		if err := s.AddType(schema.NewAtom(schema.Name(name), nil)); err != nil {
			if fail(ErrCodeBadAtom, "atom %s: %v", name, err) {
				return s, errs
			}
		}
	}
	for _, name := range atomNames {
		def := doc.Atoms[name]
		if def.Base == "" {
			continue
		}
		base, err := s.Get(schema.Name(def.Base))
		if err != nil {
			if fail(ErrCodeBadAtom, "atom %s: base: %v", name, err) {
				return s, errs
			}
			continue
		}
		baseAtom, ok := base.(*schema.Atom)
		if !ok {
			if fail(ErrCodeBadAtom, "atom %s: base %s is not an atom", name, def.Base) {
				return s, errs
			}
			continue
		}
		atom, _ := s.Get(schema.Name(name))
		atom.(*schema.Atom).Base = baseAtom
	}

	// Concepts: register all, then resolve bases, then pointers.
	conceptNames := sortedKeys(doc.Concepts)
	for _, name := range conceptNames {
		if err := s.AddType(schema.NewConcept(schema.Name(name))); err != nil {
			if fail(ErrCodeBadConcept, "concept %s: %v", name, err) {
				return s, errs
			}
		}
	}
	for _, name := range conceptNames {
		concept, ok := lookupConcept(s, name)
		if !ok {
			continue
		}
		for _, baseName := range doc.Concepts[name].Bases {
			base, ok := lookupConcept(s, baseName)
			if !ok {
				if fail(ErrCodeBadConcept, "concept %s: base %s is not a concept", name, baseName) {
					return s, errs
				}
				continue
			}
			concept.Bases = append(concept.Bases, base)
		}
	}
	for _, name := range conceptNames {
		concept, ok := lookupConcept(s, name)
		if !ok {
			continue
		}
		pointers := doc.Concepts[name].Pointers
		for _, ptrName := range sortedKeys(pointers) {
			def := pointers[ptrName]
			target, err := s.Get(schema.Name(def.Target))
			if err != nil {
				if fail(ErrCodeBadPointer, "pointer %s.%s: target: %v", name, ptrName, err) {
					return s, errs
				}
				continue
			}
			ptr, err := s.DefinePointer(concept, schema.Name(ptrName), target)
			if err != nil {
				if fail(ErrCodeBadPointer, "pointer %s.%s: %v", name, ptrName, err) {
					return s, errs
				}
				continue
			}
			for _, propName := range sortedKeys(def.Properties) {
				propTarget, err := s.Get(schema.Name(def.Properties[propName]))
				if err != nil {
					if fail(ErrCodeBadPointer, "property %s.%s.%s: %v", name, ptrName, propName, err) {
						return s, errs
					}
					continue
				}
				generic := ptr.Topmost()
				generic.AddProperty(
					schema.NewLink(schema.Name(propName), nil, generic, propTarget))
			}
		}
	}

	for _, name := range sortedKeys(doc.Functions) {
		ret, err := s.Get(schema.Name(doc.Functions[name].Returns))
		if err != nil {
			if fail(ErrCodeBadFunction, "function %s: returns: %v", name, err) {
				return s, errs
			}
			continue
		}
		if err := s.AddFunction(schema.NewFunction(schema.Name(name), ret)); err != nil {
			if fail(ErrCodeBadFunction, "function %s: %v", name, err) {
				return s, errs
			}
		}
	}

	for _, rule := range doc.Rules.Binary {
		if rule.Op == "" || rule.Left == "" || rule.Right == "" || rule.Result == "" {
			if fail(ErrCodeBadRule, "binary rule needs op, left, right and result") {
				return s, errs
			}
			continue
		}
		op := schema.Operator(rule.Op)
		if rule.Reversed {
			s.Rules().RegisterBinaryReversed(op,
				schema.Name(rule.Left), schema.Name(rule.Right), schema.Name(rule.Result))
		} else {
			s.Rules().RegisterBinary(op,
				schema.Name(rule.Left), schema.Name(rule.Right), schema.Name(rule.Result))
		}
	}
	for _, rule := range doc.Rules.Unary {
		if rule.Op == "" || rule.Operand == "" || rule.Result == "" {
			if fail(ErrCodeBadRule, "unary rule needs op, operand and result") {
				return s, errs
			}
			continue
		}
		s.Rules().RegisterUnary(schema.Operator(rule.Op),
			schema.Name(rule.Operand), schema.Name(rule.Result))
	}

	return s, errs
}

func lookupConcept(s *schema.Schema, name string) (*schema.Concept, bool) {
	t, err := s.Get(schema.Name(name))
	if err != nil {
		return nil, false
	}
	c, ok := t.(*schema.Concept)
	return c, ok
}

// FindCUEFiles walks the directory and returns all .cue file paths.
func FindCUEFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && filepath.Ext(path) == ".cue" {
			files = append(files, path)
		}
		return nil
	})
	return files, err
}

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
