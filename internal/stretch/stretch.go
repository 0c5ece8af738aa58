// Package stretch expands fixed-size SHA-256 output into byte strings of
// arbitrary length: DeriveInto for (re)seeding and GenerateInto for output
// production.
package stretch

import (
	"pkt.systems/hdrbg/internal/octets"
	"pkt.systems/hdrbg/sha256"
)

// DeriveInto fills dst with the hash derivation function over material.
// Block i (counting from 1) is SHA-256(byte(i) || uint32be(len(dst)*8) ||
// material).
func DeriveInto(dst, material []byte) {
	var prefix [5]byte
	octets.Decompose(prefix[1:], uint64(len(dst))<<3)
	for i, off := 1, 0; off < len(dst); i++ {
		prefix[0] = byte(i)
		sum := sha256.SumParts(prefix[:], material)
		off += copy(dst[off:], sum[:])
		clear(sum[:])
	}
}

// GenerateInto fills dst with the hash generation function over a copy of v.
// Block i hashes v+i modulo 2^(8*len(v)); v itself is not modified.
func GenerateInto(dst, v []byte) {
	m := make([]byte, len(v))
	copy(m, v)
	for off := 0; off < len(dst); {
		sum := sha256.Sum256(m)
		off += copy(dst[off:], sum[:])
		octets.Increment(m)
		clear(sum[:])
	}
	clear(m)
}
