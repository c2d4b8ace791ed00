package uniq6

// hexDigit returns the numeric value of a hex digit, or -1 for anything else.
func hexDigit(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c-'a') + 10
	case c >= 'A' && c <= 'F':
		return int(c-'A') + 10
	}
	return -1
}

// isSpace reports whether c is ASCII whitespace. The parser treats
// whitespace as end of the address, so CR/LF handling needs no special
// casing in the scan loop.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

// ParseAddr converts one line of text into the canonical 128-bit form of
// the IPv6 address it spells, normalizing hex case, leading zeros, and
// zero compression ("::"). It accepts 1-8 colon-separated hex groups with
// at most one compression token expanding to exactly eight groups total.
//
// Leading whitespace is skipped; the scan terminates at whitespace or end
// of input. Malformed input is a normal, silent outcome: the second return
// value is false and the line is simply not an address. ParseAddr never
// allocates and never returns an error.
//
// Syntactic well-formedness is the only check: reserved ranges, zone IDs,
// and CIDR suffixes are not recognized (a '%' or '/' fails the parse).
func ParseAddr(line []byte) (Addr, bool) {
	var groups [8]uint16
	n := 0     // groups parsed so far
	comp := -1 // group index where "::" was seen, -1 if none

	i, end := 0, len(line)
	for i < end && isSpace(line[i]) {
		i++
	}
	if i == end {
		return Addr{}, false
	}

	// An address may only start with a colon as part of a leading "::".
	if line[i] == ':' {
		if i+1 >= end || line[i+1] != ':' {
			return Addr{}, false
		}
		comp = 0
		i += 2
		// Bare "::" is the all-zero address.
		if i >= end || isSpace(line[i]) {
			return Addr{}, true
		}
	}

	for i < end && n < 8 {
		// Consume a run of hex digits. Accumulation deliberately wraps at
		// 16 bits: the grammar caps groups at 4 digits only through this
		// natural truncation, with no explicit length check.
		var val uint32
		hasDigits := false
		for i < end {
			d := hexDigit(line[i])
			if d < 0 {
				break
			}
			val = val<<4 | uint32(d)
			hasDigits = true
			i++
		}
		if hasDigits {
			groups[n] = uint16(val)
			n++
		}

		if i >= end || isSpace(line[i]) {
			break
		}
		if line[i] != ':' {
			return Addr{}, false
		}
		i++
		if i < end && line[i] == ':' {
			if comp != -1 {
				// Only one compression token per address.
				return Addr{}, false
			}
			comp = n
			i++
		}
	}

	// Anything left that is not whitespace means the address ran past
	// eight groups ("1:2:3:4:5:6:7:8:9") or hit a stray character.
	if i < end && !isSpace(line[i]) {
		return Addr{}, false
	}

	if comp != -1 {
		// The compression token must stand for at least one zero group;
		// with eight explicit groups there is no room for it.
		if n == 8 {
			return Addr{}, false
		}
		// Shift the groups parsed after "::" to the tail, zeroing the gap.
		// Destination index always exceeds source index (n < 8), so the
		// in-place walk from the tail never clobbers an unread group.
		for k := 0; k < n-comp; k++ {
			groups[7-k] = groups[n-1-k]
			groups[n-1-k] = 0
		}
	} else if n != 8 {
		return Addr{}, false
	}

	return Addr{
		Hi: uint64(groups[0])<<48 | uint64(groups[1])<<32 | uint64(groups[2])<<16 | uint64(groups[3]),
		Lo: uint64(groups[4])<<48 | uint64(groups[5])<<32 | uint64(groups[6])<<16 | uint64(groups[7]),
	}, true
}
