package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/quernlang/quern/internal/schema"
)

// Save writes a compiled catalog into the snapshot, replacing any previous
// contents. Std builtins are recreated by schema.New on load and are not
// persisted.
func (s *Store) Save(ctx context.Context, cat *schema.Schema) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin snapshot write: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{
		"atoms", "concepts", "concept_bases", "pointers", "link_props",
		"type_rules", "functions",
	} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, t := range cat.Types() {
		switch t := t.(type) {
		case *schema.Atom:
			if isStd(t.TypeName()) {
				continue
			}
			base := ""
			if t.Base != nil {
				base = string(t.Base.TypeName())
			}
			if err := exec(ctx, tx,
				`INSERT INTO atoms (name, base) VALUES (?, ?)`,
				string(t.TypeName()), base); err != nil {
				return err
			}

		case *schema.Concept:
			if err := exec(ctx, tx,
				`INSERT INTO concepts (name) VALUES (?)`,
				string(t.TypeName())); err != nil {
				return err
			}
			for ord, base := range t.Bases {
				if err := exec(ctx, tx,
					`INSERT INTO concept_bases (concept, base, ord) VALUES (?, ?, ?)`,
					string(t.TypeName()), string(base.TypeName()), ord); err != nil {
					return err
				}
			}
			for _, name := range pointerNames(t) {
				ptr := t.Pointers[name]
				if err := exec(ctx, tx,
					`INSERT INTO pointers (source, name, target) VALUES (?, ?, ?)`,
					string(t.TypeName()), string(name),
					string(ptr.Target.TypeName())); err != nil {
					return err
				}
			}

		case *schema.Link:
			// Generic links are recreated by pointer registration; only
			// their properties need persisting.
			if !t.Generic() {
				continue
			}
			for _, name := range propertyNames(t) {
				prop := t.Properties[name]
				if err := exec(ctx, tx,
					`INSERT INTO link_props (link, name, target) VALUES (?, ?, ?)`,
					string(t.TypeName()), string(name),
					string(prop.Target.TypeName())); err != nil {
					return err
				}
			}
		}
	}

	for _, rule := range cat.Rules().Binary() {
		reversed := 0
		if rule.Reversed {
			reversed = 1
		}
		if err := exec(ctx, tx,
			`INSERT INTO type_rules (op, arity, reversed, left, right, result)
			 VALUES (?, 2, ?, ?, ?, ?)`,
			string(rule.Op), reversed, string(rule.Left), string(rule.Right),
			string(rule.Result)); err != nil {
			return err
		}
	}
	for _, rule := range cat.Rules().Unary() {
		if err := exec(ctx, tx,
			`INSERT INTO type_rules (op, arity, reversed, left, right, result)
			 VALUES (?, 1, 0, ?, '', ?)`,
			string(rule.Op), string(rule.Operand), string(rule.Result)); err != nil {
			return err
		}
	}

	for _, fn := range cat.Functions() {
		if err := exec(ctx, tx,
			`INSERT INTO functions (name, return_type) VALUES (?, ?)`,
			string(fn.FunctionName()), string(fn.ReturnType.TypeName())); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit snapshot write: %w", err)
	}
	return nil
}

func exec(ctx context.Context, tx *sql.Tx, query string, args ...any) error {
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("snapshot write: %w", err)
	}
	return nil
}

func isStd(name schema.Name) bool {
	return strings.HasPrefix(string(name), "std::")
}

func pointerNames(c *schema.Concept) []schema.Name {
	return sortedKeys(c.Pointers)
}

func propertyNames(l *schema.Link) []schema.Name {
	return sortedKeys(l.Properties)
}
