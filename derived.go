package hdrbg

import (
	"fmt"
	"math"

	"pkt.systems/hdrbg/internal/octets"
)

// Uint64 returns a uniformly distributed 64-bit integer built from eight
// generated bytes in big-endian order.
func (d *DRBG) Uint64() (uint64, error) {
	var b [8]byte
	if _, err := d.Generate(b[:], false); err != nil {
		return 0, err
	}
	v := octets.Compose(b[:])
	wipe(b[:])
	return v, nil
}

// Uint64n returns a uniformly distributed integer in [0, modulus). Draws
// falling into the biased top remainder of the 64-bit range are discarded.
// A zero modulus fails with ErrInvalidModulus without touching the state.
func (d *DRBG) Uint64n(modulus uint64) (uint64, error) {
	if modulus == 0 {
		return 0, d.fail(fmt.Errorf("%w: modulus must be > 0", ErrInvalidModulus))
	}
	threshold := math.MaxUint64 - math.MaxUint64%modulus
	for {
		r, err := d.Uint64()
		if err != nil {
			return 0, err
		}
		if r < threshold {
			return r % modulus, nil
		}
	}
}

// Span returns a uniformly distributed integer in [left, right). The width
// of the interval is computed on the unsigned bit patterns, so any pair of
// int64 bounds works, including math.MinInt64 to math.MaxInt64. A range
// with left >= right fails with ErrInvalidRange without touching the state.
func (d *DRBG) Span(left, right int64) (int64, error) {
	if left >= right {
		return 0, d.fail(fmt.Errorf("%w: [%d, %d)", ErrInvalidRange, left, right))
	}
	r, err := d.Uint64n(uint64(right) - uint64(left))
	if err != nil {
		return 0, err
	}
	return int64(uint64(left) + r), nil
}

// Float64 returns Uint64() / (2^64 - 1), a fraction in [0, 1]. Both ends
// are reachable.
func (d *DRBG) Float64() (float64, error) {
	r, err := d.Uint64()
	if err != nil {
		return 0, err
	}
	return float64(r) / float64(math.MaxUint64), nil
}

// Drop advances the state count times without producing output. Each step
// is a full generate operation and counts toward ReseedInterval. The first
// failure stops the loop.
func (d *DRBG) Drop(count uint64) error {
	for range count {
		if _, err := d.Generate(nil, false); err != nil {
			return err
		}
	}
	return nil
}
