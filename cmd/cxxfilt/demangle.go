package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/skdltmxn/cxxdemangle/demangle"
)

// filterBatch is the number of input lines handed to the workers at once.
const filterBatch = 256

func runDemangle(cmd *cobra.Command, args []string) error {
	opts, err := cfg.DemangleOptions(logger)
	if err != nil {
		return fmt.Errorf("invalid demangle options: %w", err)
	}

	if len(args) == 0 {
		return filterLines(cmd.InOrStdin(), output, opts, cfg.Jobs, cfg.InputLimit)
	}

	for _, line := range demangleArgs(args, opts, cfg.Jobs, logger) {
		fmt.Fprintln(output, line)
	}
	return nil
}

// demangleArgs demangles every symbol concurrently and returns the results
// in input order. Symbols that fail come back unchanged.
func demangleArgs(symbols []string, opts []demangle.Option, jobs int, log zerolog.Logger) []string {
	results := make([]string, len(symbols))

	var group errgroup.Group
	group.SetLimit(jobs)
	for i, symbol := range symbols {
		group.Go(func() error {
			results[i] = demangleSymbol(symbol, opts, log)
			return nil
		})
	}
	_ = group.Wait()

	return results
}

func demangleSymbol(symbol string, opts []demangle.Option, log zerolog.Logger) string {
	out, err := demangle.Demangle(symbol, opts...)
	switch demangle.Classify(err) {
	case demangle.CategoryNone:
		return out
	case demangle.CategoryNotMangled:
		return symbol
	default:
		log.Warn().
			Err(err).
			Str("symbol", symbol).
			Stringer("category", demangle.Classify(err)).
			Msg("cannot demangle")
		return symbol
	}
}

// filterLines copies r to w, demangling every mangled name it finds.
// Lines are processed in batches by up to jobs workers and written in order.
// A line may be as long as the larger of inputLimit and the default limit.
func filterLines(r io.Reader, w io.Writer, opts []demangle.Option, jobs, inputLimit int) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), max(inputLimit, demangle.DefaultMaxInput)+1)

	bw := bufio.NewWriter(w)
	batch := make([]string, 0, filterBatch)

	flush := func() error {
		out := make([]string, len(batch))

		var group errgroup.Group
		group.SetLimit(jobs)
		for i, line := range batch {
			group.Go(func() error {
				out[i] = demangle.Filter(line, opts...)
				return nil
			})
		}
		_ = group.Wait()

		for _, line := range out {
			if _, err := fmt.Fprintln(bw, line); err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
		}
		batch = batch[:0]
		return nil
	}

	for scanner.Scan() {
		batch = append(batch, scanner.Text())
		if len(batch) == filterBatch {
			if err := flush(); err != nil {
				return err
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	if err := flush(); err != nil {
		return err
	}

	return bw.Flush()
}
