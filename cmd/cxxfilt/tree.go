package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/skdltmxn/cxxdemangle/demangle"
)

var (
	treeTail bool
)

var treeCmd = &cobra.Command{
	Use:   "tree <symbol>",
	Short: "Show the parse tree of a mangled name",
	Long: `Parse a mangled name and print its demangled form, the grammar
tree it was built from, and the size of its substitution table.

With --tail, text after the mangled name is allowed and printed.`,
	Args: cobra.ExactArgs(1),
	RunE: runTree,
}

func init() {
	treeCmd.Flags().BoolVarP(&treeTail, "tail", "t", false, "accept and print text after the mangled name")
}

func runTree(cmd *cobra.Command, args []string) error {
	opts, err := cfg.DemangleOptions(logger)
	if err != nil {
		return fmt.Errorf("invalid demangle options: %w", err)
	}

	var (
		sym  *demangle.Symbol
		tail string
	)
	if treeTail {
		sym, tail, err = demangle.ParseWithTail(args[0], opts...)
	} else {
		sym, err = demangle.Parse(args[0], opts...)
	}
	if err != nil {
		return fmt.Errorf("failed to parse %q: %w", args[0], err)
	}

	text, err := sym.Render()
	if err != nil {
		return fmt.Errorf("failed to render %q: %w", sym.Mangled(), err)
	}

	fmt.Fprintf(output, "Mangled:       %s\n", sym.Mangled())
	fmt.Fprintf(output, "Demangled:     %s\n", text)
	fmt.Fprintf(output, "Substitutions: %d\n", sym.Substitutions())
	if treeTail {
		fmt.Fprintf(output, "Tail:          %q\n", tail)
	}
	fmt.Fprintln(output)

	return sym.Dump(output)
}
