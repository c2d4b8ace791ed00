package uniq6

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	uniq6errors "github.com/addrcount/uniq6/errors"
)

const (
	// contextCheckInterval is how often to check for context cancellation
	// during Add.
	contextCheckInterval = 10000

	// defaultWorkers is the counting-phase pool size used when the
	// hardware parallelism cannot be determined.
	defaultWorkers = 4

	// maxLineLength bounds a single input line. Far above any address
	// spelling; longer lines fail the scan rather than exhaust memory.
	maxLineLength = 1 << 20
)

// Counter counts distinct IPv6 addresses across an input too large for an
// in-memory set. Input lines are parsed to a canonical 128-bit form and
// partitioned into 256 disk-backed buckets; Finish then sorts and counts
// each bucket independently, in parallel, and sums the per-bucket distinct
// counts. The sum is exact because bucket selection is a pure function of
// the address value: equal addresses always meet in the same bucket.
//
// Usage:
//
//	counter, err := uniq6.NewCounter(ctx, uniq6.WithTempDir(dir))
//	if err != nil { return err }
//	defer counter.Close() // Clean up on error
//
//	for line := range lines {
//	    if _, err := counter.Add(line); err != nil { return err }
//	}
//	total, err := counter.Finish()
//
// A Counter is single-goroutine during the Add phase; Finish manages its
// own worker pool internally. Peak memory is bounded by the per-bucket
// write buffers plus, per worker, one bucket's record set.
type Counter struct {
	ctx         context.Context
	cfg         *config
	set         *bucketSet
	router      *router
	lineCounter int
	finished    bool
	closed      bool
}

// NewCounter creates a Counter with all 256 bucket spill files opened in
// the configured temp directory. A spill file that cannot be created fails
// construction immediately.
func NewCounter(ctx context.Context, opts ...Option) (*Counter, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	set, err := newBucketSet(cfg.tempDir)
	if err != nil {
		return nil, err
	}

	return &Counter{
		ctx:    ctx,
		cfg:    cfg,
		set:    set,
		router: newRouter(set, cfg.hashedRouting),
	}, nil
}

// Add parses one input line and routes the address to its bucket. The
// returned bool reports whether the line parsed as an address; a malformed
// or blank line is skipped silently (false, nil) and is not an error.
// A non-nil error means a spill write failed or the context was cancelled,
// both fatal to the run.
func (c *Counter) Add(line []byte) (bool, error) {
	if err := c.checkState(); err != nil {
		return false, err
	}

	c.lineCounter++
	if c.lineCounter >= contextCheckInterval {
		c.lineCounter = 0
		select {
		case <-c.ctx.Done():
			return false, c.ctx.Err()
		default:
		}
	}

	a, ok := ParseAddr(line)
	if !ok {
		return false, nil
	}
	if err := c.router.route(a); err != nil {
		return false, err
	}
	return true, nil
}

// AddAddr routes an already-canonical address, bypassing the parser.
func (c *Counter) AddAddr(a Addr) error {
	if err := c.checkState(); err != nil {
		return err
	}
	return c.router.route(a)
}

func (c *Counter) checkState() error {
	if c.closed {
		return uniq6errors.ErrCounterClosed
	}
	if c.finished {
		return uniq6errors.ErrCounterFinished
	}
	return nil
}

// Finish flushes all buckets and runs the counting phase: a pool of
// workers claims bucket ids from a shared atomic counter, and each claimed
// bucket is sorted, deduplicated, counted, and deleted by exactly one
// worker. Returns the global distinct count.
//
// Bucket processing order is unspecified and irrelevant: the total is a
// commutative sum of per-bucket contributions. After Finish the Counter
// cannot be reused; Close remains safe to call.
func (c *Counter) Finish() (uint64, error) {
	if err := c.checkState(); err != nil {
		return 0, err
	}
	c.finished = true

	if err := c.router.flushAll(); err != nil {
		return 0, errors.Join(err, c.cleanup())
	}
	if err := c.set.closeWriters(); err != nil {
		return 0, errors.Join(err, c.cleanup())
	}

	workers := c.cfg.workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > numBuckets {
		workers = numBuckets
	}

	var (
		nextBucket atomic.Uint64 // shared claim counter, sole arbiter of bucket ownership
		total      atomic.Uint64 // global distinct count
	)

	g, ctx := errgroup.WithContext(c.ctx)
	for range workers {
		g.Go(func() error {
			for {
				b := nextBucket.Add(1) - 1
				if b >= numBuckets {
					return nil
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				n, err := c.set.processBucket(int(b))
				if err != nil {
					return err
				}
				total.Add(n)
			}
		})
	}

	if err := g.Wait(); err != nil {
		return 0, errors.Join(err, c.cleanup())
	}
	return total.Load(), nil
}

// Close aborts the count and removes any remaining spill files. Safe to
// call after Finish (a no-op for the already-deleted buckets) and safe to
// call more than once.
func (c *Counter) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.cleanup()
}

// cleanup closes writers and removes every spill file that still exists.
func (c *Counter) cleanup() error {
	errs := []error{c.set.closeWriters()}
	for b := range numBuckets {
		errs = append(errs, c.set.remove(b))
	}
	return errors.Join(errs...)
}

// CountReader counts distinct addresses in newline-delimited text from r.
// Trailing carriage returns, blank lines, and malformed lines are skipped
// silently per the input format.
func CountReader(ctx context.Context, r io.Reader, opts ...Option) (uint64, error) {
	c, err := NewCounter(ctx, opts...)
	if err != nil {
		return 0, err
	}
	defer c.Close()

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineLength)
	for sc.Scan() {
		if _, err := c.Add(sc.Bytes()); err != nil {
			return 0, err
		}
	}
	if err := sc.Err(); err != nil {
		return 0, fmt.Errorf("read input: %w", err)
	}

	return c.Finish()
}

// CountFile counts distinct addresses in the newline-delimited file at path.
func CountFile(ctx context.Context, path string, opts ...Option) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open input file: %w", err)
	}
	defer f.Close()
	return CountReader(ctx, f, opts...)
}
