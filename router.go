package uniq6

import "github.com/zeebo/xxh3"

// writeBufferLen is the number of records staged in memory per bucket
// before a flush. Flushes amortize spill-file appends; the buffer is not a
// correctness mechanism.
const writeBufferLen = 64 * 1024

// router stages canonical addresses in per-bucket buffers and spills full
// buffers to the bucket set as raw fixed-size records. It is exclusively
// owned by the single routing goroutine; no synchronization is needed.
type router struct {
	set     *bucketSet
	bufs    [numBuckets][]Addr
	scratch []byte // reusable encode buffer, sized to one flush batch
	hashed  bool
}

func newRouter(set *bucketSet, hashed bool) *router {
	return &router{set: set, hashed: hashed}
}

// bucketOf selects the bucket for an address. The default is the
// most-significant byte of the high half; hashed mode takes the top byte
// of an xxh3 hash over the 16-byte record instead (see WithHashedRouting).
// Both are pure functions of the value, so repeated routing of equal
// addresses always selects the same bucket.
func (r *router) bucketOf(a Addr) int {
	if !r.hashed {
		return int(a.topByte())
	}
	var rec [recordSize]byte
	putAddr(rec[:], a)
	return int(xxh3.Hash(rec[:]) >> 56)
}

// route appends the address to its bucket's buffer, flushing that buffer
// alone once it reaches capacity. Buffers grow lazily up to capacity
// rather than being reserved upfront.
func (r *router) route(a Addr) error {
	b := r.bucketOf(a)
	r.bufs[b] = append(r.bufs[b], a)
	if len(r.bufs[b]) >= writeBufferLen {
		return r.flush(b)
	}
	return nil
}

// flush spills one bucket's buffered records as a single append.
// A no-op on an empty buffer, so flushing is idempotent.
func (r *router) flush(bucket int) error {
	buf := r.bufs[bucket]
	if len(buf) == 0 {
		return nil
	}

	need := len(buf) * recordSize
	if cap(r.scratch) < need {
		r.scratch = make([]byte, need)
	}
	data := r.scratch[:need]
	for i, a := range buf {
		putAddr(data[i*recordSize:], a)
	}

	r.bufs[bucket] = buf[:0]
	return r.set.append(bucket, data)
}

// flushAll drains every buffer. Must run exactly once, after the input
// stream is exhausted and before any bucket is opened for reading.
func (r *router) flushAll() error {
	for b := range numBuckets {
		if err := r.flush(b); err != nil {
			return err
		}
	}
	return nil
}
