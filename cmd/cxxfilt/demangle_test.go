package main

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/skdltmxn/cxxdemangle/demangle"
)

func TestDemangleArgs(t *testing.T) {
	var logs bytes.Buffer
	log := zerolog.New(&logs)

	got := demangleArgs([]string{"_Z1fv", "main", "_Z1fS_", "_ZN3FooC1Ev"}, nil, 2, log)
	require.Equal(t, []string{"f()", "main", "_Z1fS_", "Foo::Foo()"}, got)

	// only the malformed symbol is worth a warning
	require.Equal(t, 1, strings.Count(logs.String(), "\n"))
	require.Contains(t, logs.String(), `"symbol":"_Z1fS_"`)
	require.Contains(t, logs.String(), `"category":"malformed"`)
	require.Contains(t, logs.String(), `"level":"warn"`)
}

func TestDemangleArgsOrder(t *testing.T) {
	symbols := make([]string, 100)
	want := make([]string, 100)
	for i := range symbols {
		name := fmt.Sprintf("f%d", i)
		symbols[i] = fmt.Sprintf("_Z%d%sv", len(name), name)
		want[i] = name + "()"
	}

	got := demangleArgs(symbols, nil, 8, zerolog.Nop())
	require.Equal(t, want, got)
}

func TestDemangleArgsOptions(t *testing.T) {
	got := demangleArgs([]string{"_Z1fIiEvT_"}, []demangle.Option{demangle.WithNoReturnType()}, 1, zerolog.Nop())
	require.Equal(t, []string{"f<int>(int)"}, got)
}

func TestFilterLines(t *testing.T) {
	in := strings.Join([]string{
		"call _Z1fv at 0x10",
		"no symbols here",
		"_ZN3Foo3barEv+0x4 and __Z3fooi",
		"bad _Z1fS_ stays",
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, filterLines(strings.NewReader(in), &out, nil, 2, demangle.DefaultMaxInput))
	require.Equal(t, strings.Join([]string{
		"call f() at 0x10",
		"no symbols here",
		"Foo::bar()+0x4 and foo(int)",
		"bad _Z1fS_ stays",
	}, "\n")+"\n", out.String())
}

func TestFilterLinesBatches(t *testing.T) {
	var in, want strings.Builder
	for i := 0; i < 3*filterBatch+7; i++ {
		fmt.Fprintf(&in, "%d _Z1gv\n", i)
		fmt.Fprintf(&want, "%d g()\n", i)
	}

	var out bytes.Buffer
	require.NoError(t, filterLines(strings.NewReader(in.String()), &out, nil, 4, demangle.DefaultMaxInput))
	require.Equal(t, want.String(), out.String())
}

func TestFilterLinesEmpty(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, filterLines(strings.NewReader(""), &out, nil, 1, demangle.DefaultMaxInput))
	require.Empty(t, out.String())
}

func TestFilterLinesLongLine(t *testing.T) {
	limit := 2 * demangle.DefaultMaxInput
	line := "_Z1fv " + strings.Repeat("x", demangle.DefaultMaxInput+10)

	var out bytes.Buffer
	opts := []demangle.Option{demangle.WithMaxInput(limit)}
	require.NoError(t, filterLines(strings.NewReader(line+"\n"), &out, opts, 1, limit))
	require.Equal(t, "f() "+line[len("_Z1fv "):]+"\n", out.String())

	out.Reset()
	err := filterLines(strings.NewReader(line+"\n"), &out, nil, 1, demangle.DefaultMaxInput)
	require.Error(t, err)
}
