package hdrbg

import (
	"slices"
	"time"

	"pkt.systems/hdrbg/entropy"
)

type config struct {
	source   entropy.Source
	nonce    []byte
	hasNonce bool
	clock    func() time.Time
}

// Option configures a DRBG at instantiation.
type Option func(*config)

func applyOptions(opts []Option) config {
	cfg := config{
		source: entropy.OS(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hasNonce && cfg.nonce == nil {
		cfg.nonce = []byte{}
	}
	return cfg
}

// WithEntropySource replaces the operating system source used for
// instantiation and every reseed.
func WithEntropySource(src entropy.Source) Option {
	return func(cfg *config) {
		if src == nil {
			panic("hdrbg: entropy source must not be nil")
		}
		cfg.source = src
	}
}

// WithNonce uses nonce in place of the timestamp and sequence number. Two
// instances given the same entropy and nonce produce the same output, which
// is what known-answer tests and reproducible streams need. Callers are
// responsible for never reusing a nonce with live entropy.
func WithNonce(nonce []byte) Option {
	return func(cfg *config) {
		cfg.nonce = slices.Clone(nonce)
		cfg.hasNonce = true
	}
}

// WithClock overrides the time source for the nonce timestamp.
func WithClock(now func() time.Time) Option {
	return func(cfg *config) {
		if now == nil {
			panic("hdrbg: clock must not be nil")
		}
		cfg.clock = now
	}
}
