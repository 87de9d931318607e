package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (string, string) {
	t.Helper()
	var out, errOut bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	// a nil slice would make cobra fall back to os.Args
	rootCmd.SetArgs(append([]string{}, args...))

	require.NoError(t, rootCmd.Execute())
	return out.String(), errOut.String()
}

func TestRootArguments(t *testing.T) {
	out, _ := execute(t, "", "--literal-case", "upper", "_Z1fILm5EEvv", "main")
	require.Equal(t, "void f<5UL>()\nmain\n", out)
}

func TestRootStdin(t *testing.T) {
	out, _ := execute(t, "at _Z3fooi\n")
	require.Equal(t, "at foo(int)\n", out)
}

func TestTree(t *testing.T) {
	out, _ := execute(t, "", "tree", "--tail", "_ZN3Foo3barERKi rest")
	require.Contains(t, out, "Mangled:       _ZN3Foo3barERKi\n")
	require.Contains(t, out, "Substitutions: 3\n")
	require.Contains(t, out, `Tail:          " rest"`)
	require.Contains(t, out, "\nEncoding\n")
}
