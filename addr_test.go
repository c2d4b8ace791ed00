package uniq6

import "testing"

func TestAddrCompare(t *testing.T) {
	cases := []struct {
		a, b Addr
		want int
	}{
		{Addr{}, Addr{}, 0},
		{Addr{Hi: 1}, Addr{Hi: 2}, -1},
		{Addr{Hi: 2}, Addr{Hi: 1}, 1},
		// High half dominates regardless of the low half.
		{Addr{Hi: 1, Lo: ^uint64(0)}, Addr{Hi: 2, Lo: 0}, -1},
		{Addr{Hi: 1, Lo: 1}, Addr{Hi: 1, Lo: 2}, -1},
		{Addr{Hi: 1, Lo: 2}, Addr{Hi: 1, Lo: 2}, 0},
	}
	for _, tc := range cases {
		if got := tc.a.Compare(tc.b); got != tc.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestAddrRecordRoundTrip(t *testing.T) {
	a := Addr{Hi: 0x20010db800000000, Lo: 0x0123456789abcdef}
	var rec [recordSize]byte
	putAddr(rec[:], a)
	if got := getAddr(rec[:]); got != a {
		t.Errorf("getAddr(putAddr(%v)) = %v", a, got)
	}
}

func TestAddrString(t *testing.T) {
	a := Addr{Hi: 0x20010db800000000, Lo: 1}
	if got, want := a.String(), "2001:db8:0:0:0:0:0:1"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
	// String output must round-trip through the parser.
	if parsed, ok := ParseAddr([]byte(a.String())); !ok || parsed != a {
		t.Errorf("ParseAddr(String()) = %v, %v; want %v, true", parsed, ok, a)
	}
}
