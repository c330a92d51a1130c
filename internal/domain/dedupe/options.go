// Package dedupe tracks identity keys so that repeated entities inside one
// normalization pass are dropped.
package dedupe

// Option applies a configuration option to the deduper.
type Option func(*inMemoryDeduper)

// WithCapacity presizes the key index.
func WithCapacity(n int) Option {
	return func(d *inMemoryDeduper) {
		if n > 0 {
			d.capacity = n
		}
	}
}
