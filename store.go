package uniq6

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"
	"github.com/edsrzf/mmap-go"

	uniq6errors "github.com/addrcount/uniq6/errors"
)

// bucketSet owns the 256 spill files backing the partitions. During the
// routing phase only the single routing goroutine touches it; during the
// counting phase each bucket is read by exactly one worker (ownership
// arbitrated by the claim counter), so per-bucket state needs no locking.
//
// Every flushed byte is folded into a per-bucket streaming xxhash digest.
// Read-back re-hashes the file and compares, catching torn or corrupted
// spill files before they silently skew the count.
type bucketSet struct {
	dir   string
	files [numBuckets]*os.File
	sums  [numBuckets]*xxhash.Digest
}

func bucketPath(dir string, bucket int) string {
	return filepath.Join(dir, fmt.Sprintf("uniq6-bucket-%03d.bin", bucket))
}

// newBucketSet creates all spill files upfront so that a full run never
// discovers an unwritable temp directory halfway through the input.
// A creation failure aborts immediately WITHOUT closing or removing the
// files already created: spill-store failure is fatal to the run and the
// process is expected to exit (fail fast, no partial cleanup).
func newBucketSet(dir string) (*bucketSet, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	s := &bucketSet{dir: dir}
	for i := range s.files {
		f, err := os.OpenFile(bucketPath(dir, i), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
		if err != nil {
			return nil, fmt.Errorf("create bucket store %d: %w", i, err)
		}
		s.files[i] = f
		s.sums[i] = xxhash.New()
	}
	return s, nil
}

// append writes one batch of encoded records to a bucket's spill file and
// folds the same bytes into its digest.
func (s *bucketSet) append(bucket int, data []byte) error {
	if _, err := s.files[bucket].Write(data); err != nil {
		return fmt.Errorf("append bucket %d: %w", bucket, err)
	}
	_, _ = s.sums[bucket].Write(data) // hash.Hash.Write never fails
	return nil
}

// closeWriters closes all spill-file handles. Called once between the
// routing and counting phases; idempotent for cleanup paths.
func (s *bucketSet) closeWriters() error {
	var errs []error
	for i, f := range s.files {
		if f == nil {
			continue
		}
		if err := f.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close bucket %d: %w", i, err))
		}
		s.files[i] = nil
	}
	return errors.Join(errs...)
}

// load reads a bucket's entire record sequence back into memory. An absent
// or empty file yields zero records, not an error. The file is mapped
// read-only after hinting sequential access; records are decoded into an
// owned slice so the mapping can be dropped before sorting begins.
func (s *bucketSet) load(bucket int) ([]Addr, error) {
	f, err := os.Open(bucketPath(s.dir, bucket))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open bucket %d: %w", bucket, err)
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat bucket %d: %w", bucket, err)
	}
	size := stat.Size()
	if size == 0 {
		return nil, nil
	}
	if size%recordSize != 0 {
		return nil, fmt.Errorf("bucket %d (%d bytes): %w", bucket, size, uniq6errors.ErrTruncatedBucket)
	}

	fadviseSequential(int(f.Fd()), 0, size)

	mm, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mmap bucket %d: %w", bucket, err)
	}
	data := []byte(mm)

	if xxhash.Sum64(data) != s.sums[bucket].Sum64() {
		primaryErr := fmt.Errorf("bucket %d: %w", bucket, uniq6errors.ErrChecksumMismatch)
		return nil, errors.Join(primaryErr, mm.Unmap())
	}

	addrs := make([]Addr, size/recordSize)
	for i := range addrs {
		addrs[i] = getAddr(data[i*recordSize:])
	}

	if err := mm.Unmap(); err != nil {
		return nil, fmt.Errorf("munmap bucket %d: %w", bucket, err)
	}
	return addrs, nil
}

// remove deletes a bucket's spill file. Missing files are fine: empty or
// already-removed buckets must still "succeed" so cleanup is unconditional.
func (s *bucketSet) remove(bucket int) error {
	if err := os.Remove(bucketPath(s.dir, bucket)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove bucket %d: %w", bucket, err)
	}
	return nil
}
