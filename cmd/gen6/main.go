// Gen6 generates synthetic newline-delimited IPv6 input for exercising and
// benchmarking uniq6.
//
// Usage:
//
//	go run ./cmd/gen6 -unique 1000000 -lines 5000000 -malformed 1000 -out input.txt
//
// Flags:
//
//	-unique     Number of distinct addresses (default: 1,000,000)
//	-lines      Total address lines; duplicates are drawn from the distinct
//	            set, and every distinct address is emitted at least once so
//	            -unique is the exact expected count (default: 5,000,000)
//	-malformed  Number of malformed lines to intersperse (default: 0)
//	-seed       Deterministic generation seed (default: 1)
//	-out        Output path (default: stdout)
//
// Addresses derive from murmur3 of a counter, so the same seed always
// produces the same input. A quarter of the set is given a run of zero
// groups, and spellings alternate between the full eight-group form and a
// zero-compressed form, to exercise the parser's compression handling.
package main

import (
	"bufio"
	"encoding/binary"
	"flag"
	"fmt"
	mrand "math/rand/v2"
	"os"
	"strings"

	"github.com/spaolacci/murmur3"

	"github.com/addrcount/uniq6"
)

var malformedLines = []string{
	"not-an-address",
	"1:2:3:4:5:6:7",
	"gggg::1",
	"1::2::3",
	"1:2:3:4:5:6:7:8:9",
}

func main() {
	uniqueFlag := flag.Int("unique", 1_000_000, "number of distinct addresses")
	linesFlag := flag.Int("lines", 5_000_000, "total address lines")
	malformedFlag := flag.Int("malformed", 0, "number of malformed lines to intersperse")
	seedFlag := flag.Uint64("seed", 1, "generation seed")
	outFlag := flag.String("out", "", "output path (default stdout)")
	flag.Parse()

	unique, lines, malformed := *uniqueFlag, *linesFlag, *malformedFlag
	if unique <= 0 || lines < unique {
		fmt.Fprintln(os.Stderr, "gen6: -lines must be at least -unique, and -unique must be positive")
		os.Exit(1)
	}

	out := os.Stdout
	if *outFlag != "" {
		f, err := os.Create(*outFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "gen6: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		out = f
	}

	seed := uint32(*seedFlag)
	rng := mrand.New(mrand.NewPCG(*seedFlag, 0x6e6a6f79))
	w := bufio.NewWriterSize(out, 1<<20)

	// Interleave malformed lines roughly evenly among the address lines.
	malformedEvery := 0
	if malformed > 0 {
		malformedEvery = lines/malformed + 1
	}

	emitted := 0
	for i := 0; i < lines; i++ {
		// First pass over the distinct set guarantees every address
		// appears; the remainder are random duplicates.
		idx := i
		if i >= unique {
			idx = rng.IntN(unique)
		}
		fmt.Fprintln(w, spell(addrAt(idx, seed), rng))
		emitted++

		if malformedEvery > 0 && emitted%malformedEvery == 0 && malformed > 0 {
			fmt.Fprintln(w, malformedLines[malformed%len(malformedLines)])
			malformed--
		}
	}
	for ; malformed > 0; malformed-- {
		fmt.Fprintln(w, malformedLines[malformed%len(malformedLines)])
	}

	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "gen6: %v\n", err)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "gen6: wrote %d address lines, %d distinct\n", lines, unique)
}

// addrAt derives the i-th distinct address from murmur3 of the counter.
// The low 32 bits carry the counter itself, which keeps the distinct set
// genuinely collision-free. Every fourth address gets zero groups in the
// middle so compressed spellings occur.
func addrAt(i int, seed uint32) uniq6.Addr {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(i))
	h1, h2 := murmur3.Sum128WithSeed(buf[:], seed)

	a := uniq6.Addr{Hi: h1, Lo: h2}
	if i%4 == 0 {
		a.Hi &= 0xffffffff00000000 // zero groups 2-3
		a.Lo &= 0x00000000ffffffff // zero groups 4-5
	}
	a.Lo = a.Lo&^0xffffffff | uint64(uint32(i))
	return a
}

// spell formats the address, alternating randomly between the full
// eight-group form and a zero-compressed form when one exists.
func spell(a uniq6.Addr, rng *mrand.Rand) string {
	if rng.IntN(2) == 0 {
		if s, ok := compressed(a); ok {
			return s
		}
	}
	return a.String()
}

// compressed spells the address with "::" over its longest run of zero
// groups, or reports false if no group is zero.
func compressed(a uniq6.Addr) (string, bool) {
	g := [8]uint16{
		uint16(a.Hi >> 48), uint16(a.Hi >> 32), uint16(a.Hi >> 16), uint16(a.Hi),
		uint16(a.Lo >> 48), uint16(a.Lo >> 32), uint16(a.Lo >> 16), uint16(a.Lo),
	}

	best, bestLen := -1, 0
	for i := 0; i < 8; {
		if g[i] != 0 {
			i++
			continue
		}
		j := i
		for j < 8 && g[j] == 0 {
			j++
		}
		if j-i > bestLen {
			best, bestLen = i, j-i
		}
		i = j
	}
	if bestLen == 0 {
		return "", false
	}

	var head, tail []string
	for i := 0; i < best; i++ {
		head = append(head, fmt.Sprintf("%x", g[i]))
	}
	for i := best + bestLen; i < 8; i++ {
		tail = append(tail, fmt.Sprintf("%x", g[i]))
	}
	return strings.Join(head, ":") + "::" + strings.Join(tail, ":"), true
}
