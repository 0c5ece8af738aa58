package crand

import (
	"bytes"
	"slices"
	"sync"
	"testing"

	"pkt.systems/hdrbg"
	"pkt.systems/hdrbg/entropy"
)

func seeded(t *testing.T) *hdrbg.DRBG {
	t.Helper()
	rng, err := hdrbg.New(hdrbg.WithEntropySource(entropy.NewReplay(make([]byte, hdrbg.SecurityStrength))), hdrbg.WithNonce([]byte("crand")))
	if err != nil {
		t.Fatalf("hdrbg.New error: %v", err)
	}
	return rng
}

func TestSourceMatchesDRBG(t *testing.T) {
	src := NewSource(seeded(t))
	twin := seeded(t)
	for range 10 {
		want, err := twin.Uint64()
		if err != nil {
			t.Fatalf("Uint64 error: %v", err)
		}
		if got := src.Uint64(); got != want {
			t.Fatalf("Source.Uint64 = %#x, want %#x", got, want)
		}
	}
	if v := src.Int63(); v < 0 {
		t.Fatalf("Int63 = %d is negative", v)
	}
}

func TestSourceReadChunks(t *testing.T) {
	const n = hdrbg.MaxRequestLength + 100
	got := make([]byte, n)
	if _, err := NewSource(seeded(t)).Read(got); err != nil {
		t.Fatalf("Read error: %v", err)
	}
	twin := seeded(t)
	want := make([]byte, n)
	twin.Generate(want[:hdrbg.MaxRequestLength], false)
	twin.Generate(want[hdrbg.MaxRequestLength:], false)
	if !bytes.Equal(got, want) {
		t.Fatalf("Read output differs from chunked generates")
	}
}

func TestSourcePanicsOnZeroedDRBG(t *testing.T) {
	rng := seeded(t)
	rng.Zero()
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic from zeroed DRBG")
		}
	}()
	NewSource(rng).Uint64()
}

func TestRandPerm(t *testing.T) {
	p := New(seeded(t)).Perm(52)
	sorted := slices.Clone(p)
	slices.Sort(sorted)
	for i, v := range sorted {
		if v != i {
			t.Fatalf("Perm is not a permutation: %v", p)
		}
	}
}

func TestPackageFunctionsConcurrent(t *testing.T) {
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				if v := Intn(10); v < 0 || v >= 10 {
					panic("Intn out of range")
				}
				Uint64()
				if f := Float64(); f < 0 || f >= 1 {
					panic("Float64 out of range")
				}
			}
		}()
	}
	wg.Wait()
	buf := make([]byte, 64)
	if n, err := Read(buf); err != nil || n != len(buf) {
		t.Fatalf("Read = %d, %v", n, err)
	}
}
