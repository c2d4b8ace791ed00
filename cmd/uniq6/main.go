// Uniq6 counts the number of distinct IPv6 addresses in a newline-delimited
// text file, using disk-backed partitioning so the full address set never
// has to fit in memory.
//
// Usage:
//
//	uniq6 <input_file> <output_file>
//
// The unique count is written to the output file as a single decimal line
// and echoed to stdout. Malformed lines are skipped silently. Exit status
// is 1 on usage errors, an unreadable input file, or bucket-storage
// failure; a failure to write the output file is reported to stderr but
// the count still goes to stdout and the exit status stays 0.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/addrcount/uniq6"
)

const progressInterval = 10_000_000

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintf(os.Stderr, "Usage: %s <input_file> <output_file>\n", os.Args[0])
		os.Exit(1)
	}
	inputPath, outputPath := os.Args[1], os.Args[2]

	total, err := run(context.Background(), inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Output-file failure is deliberately not fatal: the total still goes
	// to stdout and the exit status stays 0.
	if err := writeResult(outputPath, total); err != nil {
		fmt.Fprintf(os.Stderr, "Error: could not write output file: %v\n", err)
	}

	fmt.Printf("Done. Found %d unique IPv6 addresses.\n", total)
}

func run(ctx context.Context, inputPath string) (uint64, error) {
	in, err := os.Open(inputPath)
	if err != nil {
		return 0, fmt.Errorf("could not open input file: %w", err)
	}
	defer in.Close()

	counter, err := uniq6.NewCounter(ctx)
	if err != nil {
		return 0, err
	}
	defer counter.Close()

	fmt.Println("Phase 1: reading input and partitioning...")

	sc := bufio.NewScanner(in)
	sc.Buffer(make([]byte, 64*1024), 1<<20)
	var lines uint64
	for sc.Scan() {
		if _, err := counter.Add(sc.Bytes()); err != nil {
			return 0, err
		}
		lines++
		if lines%progressInterval == 0 {
			fmt.Printf("Processed %d lines...\n", lines)
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("read input file: %w", err)
	}

	fmt.Println("Phase 2: counting uniques in buckets...")
	return counter.Finish()
}

func writeResult(path string, total uint64) error {
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(out, "%d\n", total); err != nil {
		return errors.Join(err, out.Close())
	}
	return out.Close()
}
