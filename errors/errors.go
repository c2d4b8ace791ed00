// Package errors defines all exported error sentinels for the uniq6 library.
//
// This is the single source of truth for error values. The top-level uniq6
// package and its commands import from here, ensuring errors.Is checks work
// across package boundaries.
package errors

import "errors"

// Counting errors
var (
	ErrCounterFinished = errors.New("uniq6: counter is finished")
	ErrCounterClosed   = errors.New("uniq6: counter is closed")
)

// Bucket storage errors
var (
	ErrTruncatedBucket  = errors.New("uniq6: bucket file size is not a multiple of the record size")
	ErrChecksumMismatch = errors.New("uniq6: bucket checksum verification failed")
)
