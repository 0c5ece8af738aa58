// Package sha256 is a self-contained SHA-256 (FIPS 180-4) implementation. The
// DRBG hashes exclusively through this package so that its output does not
// depend on the platform's crypto/sha256 assembly paths.
//
// Sum256 is the one-shot entry point; New returns a streaming hash.Hash that
// produces identical digests and can be handed to constructions such as HKDF.
package sha256

import (
	"hash"
	"math/bits"

	"pkt.systems/hdrbg/internal/octets"
)

const (
	// Size is the number of bytes in a SHA-256 digest.
	Size = 32
	// BlockSize is the block size of SHA-256 in bytes.
	BlockSize = 64

	lengthBytes = 8
)

var initial = [8]uint32{
	0x6A09E667, 0xBB67AE85, 0x3C6EF372, 0xA54FF53A,
	0x510E527F, 0x9B05688C, 0x1F83D9AB, 0x5BE0CD19,
}

var roundConstants = [64]uint32{
	0x428A2F98, 0x71374491, 0xB5C0FBCF, 0xE9B5DBA5, 0x3956C25B, 0x59F111F1, 0x923F82A4, 0xAB1C5ED5,
	0xD807AA98, 0x12835B01, 0x243185BE, 0x550C7DC3, 0x72BE5D74, 0x80DEB1FE, 0x9BDC06A7, 0xC19BF174,
	0xE49B69C1, 0xEFBE4786, 0x0FC19DC6, 0x240CA1CC, 0x2DE92C6F, 0x4A7484AA, 0x5CB0A9DC, 0x76F988DA,
	0x983E5152, 0xA831C66D, 0xB00327C8, 0xBF597FC7, 0xC6E00BF3, 0xD5A79147, 0x06CA6351, 0x14292967,
	0x27B70A85, 0x2E1B2138, 0x4D2C6DFC, 0x53380D13, 0x650A7354, 0x766A0ABB, 0x81C2C92E, 0x92722C85,
	0xA2BFE8A1, 0xA81A664B, 0xC24B8B70, 0xC76C51A3, 0xD192E819, 0xD6990624, 0xF40E3585, 0x106AA070,
	0x19A4C116, 0x1E376C08, 0x2748774C, 0x34B0BCB5, 0x391C0CB3, 0x4ED8AA4A, 0x5B9CCA4F, 0x682E6FF3,
	0x748F82EE, 0x78A5636F, 0x84C87814, 0x8CC70208, 0x90BEFFFA, 0xA4506CEB, 0xBEF9A3F7, 0xC67178F2,
}

// Sum256 returns the SHA-256 digest of msg.
func Sum256(msg []byte) [Size]byte {
	var d digest
	d.Reset()
	d.Write(msg)
	return d.checkSum()
}

// SumParts returns the digest of the concatenation of parts without building
// the concatenated message.
func SumParts(parts ...[]byte) [Size]byte {
	var d digest
	d.Reset()
	for _, p := range parts {
		d.Write(p)
	}
	return d.checkSum()
}

// New returns a hash.Hash computing SHA-256.
func New() hash.Hash {
	d := new(digest)
	d.Reset()
	return d
}

type digest struct {
	h   [8]uint32
	x   [BlockSize]byte
	nx  int
	len uint64
}

func (d *digest) Reset() {
	d.h = initial
	d.nx = 0
	d.len = 0
	clear(d.x[:])
}

func (d *digest) Size() int { return Size }

func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Write(p []byte) (int, error) {
	n := len(p)
	d.len += uint64(n)
	if d.nx > 0 {
		c := copy(d.x[d.nx:], p)
		d.nx += c
		p = p[c:]
		if d.nx == BlockSize {
			compress(&d.h, d.x[:])
			d.nx = 0
		}
	}
	for len(p) >= BlockSize {
		compress(&d.h, p[:BlockSize])
		p = p[BlockSize:]
	}
	if len(p) > 0 {
		d.nx = copy(d.x[:], p)
	}
	return n, nil
}

// Sum appends the current digest to b without changing the running state.
func (d *digest) Sum(b []byte) []byte {
	dup := *d
	sum := dup.checkSum()
	clear(dup.x[:])
	return append(b, sum[:]...)
}

// checkSum pads the message with 0x80, zeros and the 64-bit big-endian bit
// length so that the total is a multiple of the block size, then serialises
// the eight state words.
func (d *digest) checkSum() [Size]byte {
	bitLen := d.len << 3

	var pad [BlockSize + lengthBytes]byte
	pad[0] = 0x80
	padLen := BlockSize - int((d.len+lengthBytes)%BlockSize)
	if padLen == 0 {
		padLen = BlockSize
	}
	octets.Decompose(pad[padLen:padLen+lengthBytes], bitLen)
	d.Write(pad[:padLen+lengthBytes])
	if d.nx != 0 {
		panic("hdrbg/sha256: padding left a partial block")
	}

	var out [Size]byte
	for i, w := range d.h {
		octets.Decompose(out[4*i:4*i+4], uint64(w))
	}
	return out
}

// compress runs the 64 rounds over one 64-byte block.
func compress(h *[8]uint32, block []byte) {
	var w [64]uint32
	for i := 0; i < 16; i++ {
		w[i] = uint32(octets.Compose(block[4*i : 4*i+4]))
	}
	for i := 16; i < 64; i++ {
		s0 := bits.RotateLeft32(w[i-15], -7) ^ bits.RotateLeft32(w[i-15], -18) ^ w[i-15]>>3
		s1 := bits.RotateLeft32(w[i-2], -17) ^ bits.RotateLeft32(w[i-2], -19) ^ w[i-2]>>10
		w[i] = w[i-16] + s0 + w[i-7] + s1
	}

	a, b, c, d, e, f, g, hh := h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7]
	for i := 0; i < 64; i++ {
		sigma1 := bits.RotateLeft32(e, -6) ^ bits.RotateLeft32(e, -11) ^ bits.RotateLeft32(e, -25)
		choice := (e & f) ^ (^e & g)
		t1 := hh + sigma1 + choice + roundConstants[i] + w[i]
		sigma0 := bits.RotateLeft32(a, -2) ^ bits.RotateLeft32(a, -13) ^ bits.RotateLeft32(a, -22)
		majority := (a & b) ^ (a & c) ^ (b & c)
		t2 := sigma0 + majority

		hh = g
		g = f
		f = e
		e = d + t1
		d = c
		c = b
		b = a
		a = t1 + t2
	}

	h[0] += a
	h[1] += b
	h[2] += c
	h[3] += d
	h[4] += e
	h[5] += f
	h[6] += g
	h[7] += hh
	clear(w[:])
}
