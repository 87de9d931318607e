// Package subs implements the substitution table used to resolve back-references.
package subs

import (
	"github.com/rs/zerolog"

	"github.com/skdltmxn/cxxdemangle/internal/ast"
	"github.com/skdltmxn/cxxdemangle/internal/errs"
)

// Table is an append-only sequence of completed substitutable nodes.
//
// A speculative child (see Speculate) layers pending entries on top of its
// parent. The parent never sees them unless the child is committed, so the
// committed sequence only ever grows.
type Table struct {
	entries []ast.Node
	parent  *Table
	base    int
	log     zerolog.Logger
}

// New returns an empty table that traces appends to log.
func New(log zerolog.Logger) *Table {
	return &Table{log: log}
}

// Len returns the number of visible entries.
func (t *Table) Len() int {
	return t.base + len(t.entries)
}

// Append records n and returns its index.
func (t *Table) Append(n ast.Node) int {
	idx := t.Len()
	t.entries = append(t.entries, n)
	t.log.Trace().Int("index", idx).Stringer("kind", n.Kind()).Bool("speculative", t.parent != nil).Msg("substitution")
	return idx
}

// Resolve returns the node recorded at index.
func (t *Table) Resolve(index int) (ast.Node, error) {
	if index < 0 || index >= t.Len() {
		return nil, errs.Atf("substitution", 0, errs.ErrBadBackReference, "index %d (have %d)", index, t.Len())
	}
	if index < t.base {
		return t.parent.Resolve(index)
	}
	return t.entries[index-t.base], nil
}

// Speculate returns a child table for a trial parse.
func (t *Table) Speculate() *Table {
	return &Table{parent: t, base: t.Len(), log: t.log}
}

// Commit appends the child's pending entries to its parent.
// It must be called at most once, and only while the parent has not grown.
func (t *Table) Commit() {
	if t.parent == nil {
		return
	}
	for _, n := range t.entries {
		t.parent.Append(n)
	}
	t.entries = nil
}
