// Package uniq6 counts distinct IPv6 addresses in arbitrarily large
// newline-delimited text using bounded memory.
//
// The engine works in two phases. Phase one reads the input once,
// canonicalizes every valid address spelling (including "::" zero
// compression) into a fixed 128-bit value, and partitions the values into
// 256 disk-backed buckets keyed by the value's most-significant byte.
// Phase two processes buckets independently and in parallel: each bucket
// is loaded, sorted, and scanned once to count distinct values, and the
// per-bucket counts sum to the exact global answer because equal addresses
// always land in the same bucket.
//
// # Basic Usage
//
// Counting a file:
//
//	total, err := uniq6.CountFile(ctx, "addresses.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(total)
//
// Streaming lines through a Counter directly:
//
//	counter, err := uniq6.NewCounter(ctx, uniq6.WithWorkers(8))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer counter.Close()
//	for sc.Scan() {
//	    if _, err := counter.Add(sc.Bytes()); err != nil {
//	        log.Fatal(err)
//	    }
//	}
//	total, err := counter.Finish()
//
// # Package Structure
//
//   - Public API: counter.go (NewCounter, Add, Finish), parser.go (ParseAddr)
//   - Configuration: options.go (Option, With* functions)
//   - Partitioning: router.go (per-bucket write buffers), store.go (spill files)
//   - Counting: processor.go (per-bucket sort + adjacent-distinct scan)
//   - Platform: fadvise_*.go (OS-specific read hints)
//
// Top-byte bucketing assumes reasonably uniform high bytes; inputs
// concentrated in one prefix can oversize a bucket. WithHashedRouting
// trades a hash per address for uniform spread on such inputs.
package uniq6
