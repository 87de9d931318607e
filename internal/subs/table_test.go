package subs

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/cxxdemangle/internal/ast"
	"github.com/skdltmxn/cxxdemangle/internal/errs"
)

func TestTableAppendResolve(t *testing.T) {
	tbl := New(zerolog.Nop())
	foo := &ast.Identifier{Name: "Foo"}
	ptr := &ast.Pointer{Pointee: foo}

	require.Equal(t, 0, tbl.Append(foo))
	require.Equal(t, 1, tbl.Append(ptr))
	require.Equal(t, 2, tbl.Len())

	got, err := tbl.Resolve(0)
	require.NoError(t, err)
	require.Same(t, foo, got)

	got, err = tbl.Resolve(1)
	require.NoError(t, err)
	require.Same(t, ptr, got)
}

func TestTableResolveOutOfRange(t *testing.T) {
	tbl := New(zerolog.Nop())
	tbl.Append(&ast.Identifier{Name: "A"})

	for _, idx := range []int{-1, 1, 100} {
		_, err := tbl.Resolve(idx)
		require.ErrorIs(t, err, errs.ErrBadBackReference)
	}
}

func TestTableSpeculateDiscard(t *testing.T) {
	tbl := New(zerolog.Nop())
	tbl.Append(&ast.Identifier{Name: "A"})

	child := tbl.Speculate()
	require.Equal(t, 1, child.Len())
	require.Equal(t, 1, child.Append(&ast.Identifier{Name: "B"}))

	got, err := child.Resolve(0)
	require.NoError(t, err)
	require.Equal(t, &ast.Identifier{Name: "A"}, got)

	// Dropping the child leaves the parent untouched.
	require.Equal(t, 1, tbl.Len())
	_, err = tbl.Resolve(1)
	require.ErrorIs(t, err, errs.ErrBadBackReference)
}

func TestTableSpeculateCommit(t *testing.T) {
	tbl := New(zerolog.Nop())
	tbl.Append(&ast.Identifier{Name: "A"})

	child := tbl.Speculate()
	b := &ast.Identifier{Name: "B"}
	c := &ast.Identifier{Name: "C"}
	child.Append(b)
	child.Append(c)
	child.Commit()

	require.Equal(t, 3, tbl.Len())
	got, err := tbl.Resolve(2)
	require.NoError(t, err)
	require.Same(t, c, got)

	// Committing twice is harmless.
	child.Commit()
	require.Equal(t, 3, tbl.Len())
}

func TestTableCommitRoot(t *testing.T) {
	tbl := New(zerolog.Nop())
	tbl.Append(&ast.Identifier{Name: "A"})
	tbl.Commit()
	require.Equal(t, 1, tbl.Len())
}
