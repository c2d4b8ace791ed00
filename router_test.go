package uniq6

import (
	"testing"
)

func TestBucketOfDefaultIsTopByte(t *testing.T) {
	r := newRouter(nil, false)
	cases := []struct {
		a    Addr
		want int
	}{
		{Addr{}, 0},
		{Addr{Hi: 0x20010db800000000, Lo: 1}, 0x20},
		{Addr{Hi: 0xff00000000000000}, 0xff},
		{Addr{Hi: 0x00ffffffffffffff, Lo: ^uint64(0)}, 0},
	}
	for _, tc := range cases {
		if got := r.bucketOf(tc.a); got != tc.want {
			t.Errorf("bucketOf(%v) = %d, want %d", tc.a, got, tc.want)
		}
	}
}

func TestBucketOfDeterministic(t *testing.T) {
	rng := newTestRNG(t)
	for _, hashed := range []bool{false, true} {
		r := newRouter(nil, hashed)
		for range 1000 {
			a := Addr{Hi: rng.Uint64(), Lo: rng.Uint64()}
			b := r.bucketOf(a)
			if b < 0 || b >= numBuckets {
				t.Fatalf("hashed=%v: bucketOf(%v) = %d out of range", hashed, a, b)
			}
			// Routing is a pure function of the value.
			for range 3 {
				if got := r.bucketOf(a); got != b {
					t.Fatalf("hashed=%v: bucketOf(%v) = %d, previously %d", hashed, a, got, b)
				}
			}
		}
	}
}

func TestRouterFlushSpillsRecords(t *testing.T) {
	dir := t.TempDir()
	set, err := newBucketSet(dir)
	if err != nil {
		t.Fatalf("newBucketSet: %v", err)
	}
	r := newRouter(set, false)

	want := []Addr{
		{Hi: 0x0a00000000000000, Lo: 1},
		{Hi: 0x0a00000000000000, Lo: 2},
		{Hi: 0x0affffffffffffff, Lo: 3},
	}
	for _, a := range want {
		if err := r.route(a); err != nil {
			t.Fatalf("route: %v", err)
		}
	}
	if err := r.flushAll(); err != nil {
		t.Fatalf("flushAll: %v", err)
	}
	// Flushing again with empty buffers must be a no-op.
	if err := r.flushAll(); err != nil {
		t.Fatalf("second flushAll: %v", err)
	}
	if err := set.closeWriters(); err != nil {
		t.Fatalf("closeWriters: %v", err)
	}

	got, err := set.load(0x0a)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d records, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("record %d = %v, want %v", i, got[i], want[i])
		}
	}

	// All other buckets stayed empty.
	other, err := set.load(0x0b)
	if err != nil {
		t.Fatalf("load empty bucket: %v", err)
	}
	if len(other) != 0 {
		t.Errorf("bucket 0x0b has %d records, want 0", len(other))
	}
}

func TestRouterFlushesAtCapacity(t *testing.T) {
	dir := t.TempDir()
	set, err := newBucketSet(dir)
	if err != nil {
		t.Fatalf("newBucketSet: %v", err)
	}
	r := newRouter(set, false)

	// One record past capacity: the full buffer spills on its own, the
	// straggler stays staged until flushAll.
	for i := range writeBufferLen + 1 {
		if err := r.route(Addr{Hi: 0, Lo: uint64(i)}); err != nil {
			t.Fatalf("route %d: %v", i, err)
		}
	}
	if got := len(r.bufs[0]); got != 1 {
		t.Fatalf("staged records after capacity flush = %d, want 1", got)
	}
	if err := r.flushAll(); err != nil {
		t.Fatalf("flushAll: %v", err)
	}
	if err := set.closeWriters(); err != nil {
		t.Fatalf("closeWriters: %v", err)
	}

	got, err := set.load(0)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(got) != writeBufferLen+1 {
		t.Fatalf("loaded %d records, want %d", len(got), writeBufferLen+1)
	}
}
