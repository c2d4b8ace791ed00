package uniq6

import (
	"bytes"
	"fmt"
	mrand "math/rand/v2"
	"os"
	"testing"
)

// newTestRNG returns a deterministic RNG so failures reproduce exactly.
func newTestRNG(t *testing.T) *mrand.Rand {
	t.Helper()
	return mrand.New(mrand.NewPCG(0x756e_6971, 0x36))
}

// randomAddrs generates n pseudo-random addresses. Values are effectively
// unique for test-sized n; exact distinct counts come from a ground-truth
// set, not from assuming uniqueness.
func randomAddrs(rng *mrand.Rand, n int) []Addr {
	addrs := make([]Addr, n)
	for i := range addrs {
		addrs[i] = Addr{Hi: rng.Uint64(), Lo: rng.Uint64()}
	}
	return addrs
}

// buildInput renders address lines in full eight-group form, shuffled,
// interleaving the given extra (typically malformed) lines.
func buildInput(rng *mrand.Rand, addrs []Addr, extra []string) *bytes.Buffer {
	lines := make([]string, 0, len(addrs)+len(extra))
	for _, a := range addrs {
		lines = append(lines, a.String())
	}
	lines = append(lines, extra...)
	rng.Shuffle(len(lines), func(i, j int) {
		lines[i], lines[j] = lines[j], lines[i]
	})

	var buf bytes.Buffer
	for _, line := range lines {
		fmt.Fprintln(&buf, line)
	}
	return &buf
}

// groundTruth returns the number of distinct addresses, computed with a
// plain in-memory set.
func groundTruth(addrs []Addr) uint64 {
	seen := make(map[Addr]struct{}, len(addrs))
	for _, a := range addrs {
		seen[a] = struct{}{}
	}
	return uint64(len(seen))
}

// requireEmptyDir fails the test if dir still contains any entries
// (leftover bucket spill files).
func requireEmptyDir(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir(%s): %v", dir, err)
	}
	if len(entries) != 0 {
		names := make([]string, len(entries))
		for i, e := range entries {
			names[i] = e.Name()
		}
		t.Fatalf("expected no leftover spill files in %s, found %v", dir, names)
	}
}
