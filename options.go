package uniq6

// Option is a functional option for configuring a Counter.
type Option func(*config)

type config struct {
	workers       int
	tempDir       string
	hashedRouting bool
}

func defaultConfig() *config {
	return &config{
		workers: 0, // Resolved to the hardware parallelism at Finish
	}
}

// WithWorkers sets the number of parallel workers for the counting phase.
// The default is the number of CPUs. Values above the bucket count are
// clamped; a single worker gives fully sequential processing.
func WithWorkers(n int) Option {
	return func(c *config) {
		c.workers = n
	}
}

// WithTempDir sets the directory for bucket spill files. The directory
// must exist and should be on a local filesystem. Defaults to os.TempDir().
func WithTempDir(dir string) Option {
	return func(c *config) {
		c.tempDir = dir
	}
}

// WithHashedRouting routes addresses to buckets by a hash of the canonical
// value instead of its most-significant byte. Top-byte routing keeps
// buckets near-uniform only when the input's high bytes are; inputs
// concentrated in one prefix (e.g. everything under 2001::/16) pile into a
// single bucket and lose the memory bound. Hashed routing spreads such
// inputs uniformly at the cost of a hash per address.
//
// Either mode partitions by address value alone, so the final count is
// identical.
func WithHashedRouting() Option {
	return func(c *config) {
		c.hashedRouting = true
	}
}
