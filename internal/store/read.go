package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/quernlang/quern/internal/schema"
)

// Load reads the snapshot back into an in-memory catalog. The returned
// schema carries the std builtins plus everything persisted by Save.
func (s *Store) Load(ctx context.Context) (*schema.Schema, error) {
	cat := schema.New()

	if err := s.loadAtoms(ctx, cat); err != nil {
		return nil, err
	}
	if err := s.loadConcepts(ctx, cat); err != nil {
		return nil, err
	}
	if err := s.loadPointers(ctx, cat); err != nil {
		return nil, err
	}
	if err := s.loadLinkProps(ctx, cat); err != nil {
		return nil, err
	}
	if err := s.loadTypeRules(ctx, cat); err != nil {
		return nil, err
	}
	if err := s.loadFunctions(ctx, cat); err != nil {
		return nil, err
	}

	return cat, nil
}

func (s *Store) loadAtoms(ctx context.Context, cat *schema.Schema) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, base FROM atoms ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return fmt.Errorf("query atoms: %w", err)
	}
	defer rows.Close()

	// Two passes: create all atoms first, then resolve bases, so base
	// order in the table does not matter.
	bases := make(map[schema.Name]schema.Name)
	var loaded []*schema.Atom
	for rows.Next() {
		var name, base string
		if err := rows.Scan(&name, &base); err != nil {
			return fmt.Errorf("scan atom: %w", err)
		}
		atom := schema.NewAtom(schema.Name(name), nil)
		if err := cat.AddType(atom); err != nil {
			return fmt.Errorf("load atom: %w", err)
		}
		loaded = append(loaded, atom)
		if base != "" {
			bases[atom.TypeName()] = schema.Name(base)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate atoms: %w", err)
	}

	for _, atom := range loaded {
		baseName, ok := bases[atom.TypeName()]
		if !ok {
			continue
		}
		baseType, err := cat.Get(baseName)
		if err != nil {
			return fmt.Errorf("load atom %q: %w", atom.TypeName(), err)
		}
		baseAtom, ok := baseType.(*schema.Atom)
		if !ok {
			return fmt.Errorf("load atom %q: base %q is not an atom",
				atom.TypeName(), baseName)
		}
		atom.Base = baseAtom
	}
	return nil
}

func (s *Store) loadConcepts(ctx context.Context, cat *schema.Schema) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name FROM concepts ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return fmt.Errorf("query concepts: %w", err)
	}
	defer rows.Close()

	var concepts []*schema.Concept
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return fmt.Errorf("scan concept: %w", err)
		}
		concept := schema.NewConcept(schema.Name(name))
		if err := cat.AddType(concept); err != nil {
			return fmt.Errorf("load concept: %w", err)
		}
		concepts = append(concepts, concept)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate concepts: %w", err)
	}

	for _, concept := range concepts {
		if err := s.loadConceptBases(ctx, cat, concept); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) loadConceptBases(ctx context.Context, cat *schema.Schema, concept *schema.Concept) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT base FROM concept_bases WHERE concept = ? ORDER BY ord ASC`,
		string(concept.TypeName()))
	if err != nil {
		return fmt.Errorf("query concept bases: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var base string
		if err := rows.Scan(&base); err != nil {
			return fmt.Errorf("scan concept base: %w", err)
		}
		baseType, err := cat.Get(schema.Name(base))
		if err != nil {
			return fmt.Errorf("load bases of %q: %w", concept.TypeName(), err)
		}
		baseConcept, ok := baseType.(*schema.Concept)
		if !ok {
			return fmt.Errorf("load bases of %q: %q is not a concept",
				concept.TypeName(), base)
		}
		concept.Bases = append(concept.Bases, baseConcept)
	}
	return rows.Err()
}

func (s *Store) loadPointers(ctx context.Context, cat *schema.Schema) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT source, name, target FROM pointers
		 ORDER BY source COLLATE BINARY ASC, name COLLATE BINARY ASC`)
	if err != nil {
		return fmt.Errorf("query pointers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var source, name, target string
		if err := rows.Scan(&source, &name, &target); err != nil {
			return fmt.Errorf("scan pointer: %w", err)
		}
		sourceType, err := cat.Get(schema.Name(source))
		if err != nil {
			return fmt.Errorf("load pointer %q.%q: %w", source, name, err)
		}
		concept, ok := sourceType.(*schema.Concept)
		if !ok {
			return fmt.Errorf("load pointer %q.%q: source is not a concept", source, name)
		}
		targetType, err := cat.Get(schema.Name(target))
		if err != nil {
			return fmt.Errorf("load pointer %q.%q: %w", source, name, err)
		}
		if _, err := cat.DefinePointer(concept, schema.Name(name), targetType); err != nil {
			return fmt.Errorf("load pointer %q.%q: %w", source, name, err)
		}
	}
	return rows.Err()
}

func (s *Store) loadLinkProps(ctx context.Context, cat *schema.Schema) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT link, name, target FROM link_props
		 ORDER BY link COLLATE BINARY ASC, name COLLATE BINARY ASC`)
	if err != nil {
		return fmt.Errorf("query link props: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var link, name, target string
		if err := rows.Scan(&link, &name, &target); err != nil {
			return fmt.Errorf("scan link prop: %w", err)
		}
		linkType, err := cat.Get(schema.Name(link))
		if err != nil {
			return fmt.Errorf("load link prop %q.%q: %w", link, name, err)
		}
		generic, ok := linkType.(*schema.Link)
		if !ok {
			return fmt.Errorf("load link prop %q.%q: %q is not a link", link, name, link)
		}
		targetType, err := cat.Get(schema.Name(target))
		if err != nil {
			return fmt.Errorf("load link prop %q.%q: %w", link, name, err)
		}
		generic.AddProperty(schema.NewLink(schema.Name(name), nil, generic, targetType))
	}
	return rows.Err()
}

func (s *Store) loadTypeRules(ctx context.Context, cat *schema.Schema) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT op, arity, reversed, left, right, result FROM type_rules
		 ORDER BY op COLLATE BINARY ASC, arity ASC, reversed ASC,
		          left COLLATE BINARY ASC, right COLLATE BINARY ASC`)
	if err != nil {
		return fmt.Errorf("query type rules: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var op, left, right, result string
		var arity, reversed int
		if err := rows.Scan(&op, &arity, &reversed, &left, &right, &result); err != nil {
			return fmt.Errorf("scan type rule: %w", err)
		}
		switch {
		case arity == 1:
			cat.Rules().RegisterUnary(schema.Operator(op),
				schema.Name(left), schema.Name(result))
		case reversed != 0:
			cat.Rules().RegisterBinaryReversed(schema.Operator(op),
				schema.Name(left), schema.Name(right), schema.Name(result))
		default:
			cat.Rules().RegisterBinary(schema.Operator(op),
				schema.Name(left), schema.Name(right), schema.Name(result))
		}
	}
	return rows.Err()
}

func (s *Store) loadFunctions(ctx context.Context, cat *schema.Schema) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, return_type FROM functions ORDER BY name COLLATE BINARY ASC`)
	if err != nil {
		return fmt.Errorf("query functions: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var name, returnType string
		if err := rows.Scan(&name, &returnType); err != nil {
			return fmt.Errorf("scan function: %w", err)
		}
		ret, err := cat.Get(schema.Name(returnType))
		if err != nil {
			return fmt.Errorf("load function %q: %w", name, err)
		}
		if err := cat.AddFunction(schema.NewFunction(schema.Name(name), ret)); err != nil {
			return fmt.Errorf("load function %q: %w", name, err)
		}
	}
	return rows.Err()
}

func sortedKeys[V any](m map[schema.Name]V) []schema.Name {
	keys := make([]schema.Name, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
