package stream

import (
	"fmt"
	"sync"

	"pkt.systems/hdrbg"
)

type config struct {
	chunkSize            int
	predictionResistance bool
	bufferPool           *sync.Pool
}

const (
	defaultChunkSize = hdrbg.MaxRequestLength
	minChunkSize     = 1
)

// Option configures readers and copies.
type Option func(*config)

func applyOptions(opts []Option) config {
	cfg := config{
		chunkSize: defaultChunkSize,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// WithChunkSize bounds the number of bytes requested from the generator per
// Generate call. It must lie between 1 and hdrbg.MaxRequestLength. Smaller
// chunks ratchet the state more often at the cost of throughput.
func WithChunkSize(n int) Option {
	return func(cfg *config) {
		if n < minChunkSize || n > hdrbg.MaxRequestLength {
			panic(fmt.Sprintf("hdrbg/stream: chunk size must be within [%d, %d]", minChunkSize, hdrbg.MaxRequestLength))
		}
		cfg.chunkSize = n
	}
}

// WithPredictionResistance makes every chunk request reseed the generator
// first.
func WithPredictionResistance(enabled bool) Option {
	return func(cfg *config) {
		cfg.predictionResistance = enabled
	}
}

// WithBufferPool allows callers to share chunk buffers across copies to
// reduce allocations. The pool should store *chunkBuffer values, or be left
// empty for Copy to populate. Buffers are zeroed before being returned.
// Passing nil leaves pooling disabled.
func WithBufferPool(pool *sync.Pool) Option {
	return func(cfg *config) {
		cfg.bufferPool = pool
	}
}
