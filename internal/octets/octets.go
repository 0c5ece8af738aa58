// Package octets holds the big-endian byte/integer helpers the DRBG is built
// on. The adder works on fixed-width registers only; it is not a bignum
// library.
package octets

import "fmt"

// MaxComposeBytes is the widest slice Compose accepts.
const MaxComposeBytes = 8

// Compose interprets up to eight bytes as a big-endian unsigned integer.
func Compose(b []byte) uint64 {
	if len(b) > MaxComposeBytes {
		panic(fmt.Sprintf("hdrbg/octets: compose needs at most %d bytes, got %d", MaxComposeBytes, len(b)))
	}
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}

// Decompose writes the low len(dst) bytes of value into dst in big-endian
// order, truncating wider values, and returns len(dst).
func Decompose(dst []byte, value uint64) int {
	for i := len(dst) - 1; i >= 0; i-- {
		dst[i] = byte(value)
		value >>= 8
	}
	return len(dst)
}

// PutUint64 is Decompose into an eight byte array.
func PutUint64(value uint64) [8]byte {
	var b [8]byte
	Decompose(b[:], value)
	return b
}

// AddAccumulate adds b into a, both big-endian, aligning b with the low-order
// end of a. The carry out of a's most significant byte is dropped, so the
// result is a + b modulo 2^(8*len(a)). b must not be longer than a.
func AddAccumulate(a, b []byte) {
	if len(b) > len(a) {
		panic(fmt.Sprintf("hdrbg/octets: addend of %d bytes exceeds register of %d bytes", len(b), len(a)))
	}
	var carry uint
	ai, bi := len(a), len(b)
	for ; bi > 0; ai, bi = ai-1, bi-1 {
		carry += uint(a[ai-1]) + uint(b[bi-1])
		a[ai-1] = byte(carry)
		carry >>= 8
	}
	for ; ai > 0 && carry != 0; ai-- {
		carry += uint(a[ai-1])
		a[ai-1] = byte(carry)
		carry >>= 8
	}
}

// Increment adds one to the big-endian register a modulo 2^(8*len(a)).
func Increment(a []byte) {
	for i := len(a) - 1; i >= 0; i-- {
		a[i]++
		if a[i] != 0 {
			return
		}
	}
}
