package uniq6

import (
	"cmp"
	"encoding/binary"
	"fmt"
)

const (
	// numBuckets is the number of disk-backed partitions. Bucket selection
	// uses one byte of the canonical value, so this is fixed at 256.
	numBuckets = 256

	// recordSize is the on-disk size of one canonical address: two
	// little-endian uint64 halves, high half first.
	recordSize = 16
)

// Addr is the canonical 128-bit form of an IPv6 address: the eight 16-bit
// groups packed most-significant-group-first into two uint64 halves.
// Equal Addr values denote the same address regardless of how the text
// spelled it (zero compression, leading zeros, hex case).
//
// Addr values are produced by ParseAddr; there is no other construction
// path in the library.
type Addr struct {
	Hi uint64 // groups 0-3, group 0 most significant
	Lo uint64 // groups 4-7, group 7 least significant
}

// Compare returns -1, 0, or +1 ordering addresses numerically:
// high half first, then low half.
func (a Addr) Compare(b Addr) int {
	if c := cmp.Compare(a.Hi, b.Hi); c != 0 {
		return c
	}
	return cmp.Compare(a.Lo, b.Lo)
}

// topByte returns the most-significant byte of the address (bits 120-127),
// the default bucket selector.
func (a Addr) topByte() uint8 {
	return uint8(a.Hi >> 56)
}

// String formats the address as eight colon-separated hex groups with no
// zero compression. Used by diagnostics and the gen6 tool; not a canonical
// textual form.
func (a Addr) String() string {
	return fmt.Sprintf("%x:%x:%x:%x:%x:%x:%x:%x",
		uint16(a.Hi>>48), uint16(a.Hi>>32), uint16(a.Hi>>16), uint16(a.Hi),
		uint16(a.Lo>>48), uint16(a.Lo>>32), uint16(a.Lo>>16), uint16(a.Lo))
}

// putAddr encodes a into dst as one 16-byte record.
// Precondition: len(dst) >= recordSize.
func putAddr(dst []byte, a Addr) {
	binary.LittleEndian.PutUint64(dst[0:8], a.Hi)
	binary.LittleEndian.PutUint64(dst[8:16], a.Lo)
}

// getAddr decodes one 16-byte record from src.
// Precondition: len(src) >= recordSize.
func getAddr(src []byte) Addr {
	return Addr{
		Hi: binary.LittleEndian.Uint64(src[0:8]),
		Lo: binary.LittleEndian.Uint64(src[8:16]),
	}
}
