package engine

import "time"

// Options configures the optional external-harness behavior of an Engine:
// how often it snapshots, and how far apart (in processed submissions) two
// snapshots may be. None of this affects Submit's synchronous
// matching semantics, only Start/Stop's background snapshot ticker.
type Options struct {
	SnapshotInterval    time.Duration
	SnapshotOffsetDelta int64
}

// DefaultOptions returns the default harness options.
func DefaultOptions() *Options {
	return &Options{
		SnapshotInterval:    30 * time.Second,
		SnapshotOffsetDelta: 1000,
	}
}
