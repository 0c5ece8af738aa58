package hdrbg_test

import (
	"testing"

	"pkt.systems/hdrbg"
)

func BenchmarkInstantiate(b *testing.B) {
	for b.Loop() {
		rng, err := hdrbg.New()
		if err != nil {
			b.Fatalf("New error: %v", err)
		}
		rng.Zero()
	}
}

func BenchmarkUint64(b *testing.B) {
	rng, err := hdrbg.New()
	if err != nil {
		b.Fatalf("New error: %v", err)
	}
	for b.Loop() {
		if _, err := rng.Uint64(); err != nil {
			b.Fatalf("Uint64 error: %v", err)
		}
	}
}

func BenchmarkFloat64(b *testing.B) {
	rng, err := hdrbg.New()
	if err != nil {
		b.Fatalf("New error: %v", err)
	}
	for b.Loop() {
		if _, err := rng.Float64(); err != nil {
			b.Fatalf("Float64 error: %v", err)
		}
	}
}

func BenchmarkGenerate64K(b *testing.B) {
	rng, err := hdrbg.New()
	if err != nil {
		b.Fatalf("New error: %v", err)
	}
	buf := make([]byte, hdrbg.MaxRequestLength)
	b.SetBytes(int64(len(buf)))
	for b.Loop() {
		if _, err := rng.Generate(buf, false); err != nil {
			b.Fatalf("Generate error: %v", err)
		}
	}
}
