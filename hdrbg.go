// hdrbg is a Go package implementing a Hash-DRBG (NIST SP 800-90A
// Hash_DRBG) over its own SHA-256. It produces random bytes, uniform
// 64-bit integers, unbiased residues, ranged integers and fractions from
// secret state that is seeded from an entropy source, ratcheted forward
// on every request and reseeded automatically every 2^48 requests or on
// demand (prediction resistance).
//
// Usage example:
//
//	rng, err := hdrbg.New()
//	if err != nil {
//		panic(err)
//	}
//	defer rng.Zero()
//	key, err := rng.Bytes(32, false)
//	if err != nil {
//		panic(err)
//	}
//	die, err := rng.Span(1, 7)
//	if err != nil {
//		panic(err)
//	}
//	fmt.Printf("%x %d\n", key, die)
//
// A DRBG is single-writer state and performs no locking. Give each
// goroutine its own instance; the nonce built at instantiation (timestamp
// plus a process-wide atomic sequence number) keeps concurrently created
// instances distinct.
//
// Every fallible method returns an error matching one of the Err*
// sentinels and also latches its ErrorKind into the instance, where
// LastError reads and clears it.
//
// You can produce random data from the shell with the hdrbg command:
//
//	go run pkt.systems/hdrbg/cmd/hdrbg@latest fill 64
//
// hdrbg Copyright (c) 2025 Michel Blomgren sa6mwa@gmail.com
//
// Permission is hereby granted, free of charge, to any person
// obtaining a copy of this software and associated documentation
// files (the "Software"), to deal in the Software without
// restriction, including without limitation the rights to use, copy,
// modify, merge, publish, distribute, sublicense, and/or sell copies
// of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF
// MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT HOLDERS
// BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER IN AN
// ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
// CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.
package hdrbg

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"pkt.systems/hdrbg/entropy"
	"pkt.systems/hdrbg/internal/octets"
	"pkt.systems/hdrbg/internal/stretch"
	"pkt.systems/hdrbg/sha256"
)

const (
	// SeedLength is the width in bytes of the V and C registers (440 bits).
	SeedLength = 55
	// SecurityStrength is the number of entropy bytes drawn per (re)seed.
	SecurityStrength = 32
	// MaxRequestLength is the largest number of bytes a single Generate may
	// produce.
	MaxRequestLength = 65536
	// ReseedInterval is the number of generate operations after which the
	// next one reseeds first.
	ReseedInterval uint64 = 1 << 48
	// DigestSize is the SHA-256 output size.
	DigestSize = sha256.Size
)

// Operation tags occupying V[0] while V is hashed.
const (
	tagSeed     byte = 0x00
	tagReseed   byte = 0x01
	tagGenerate byte = 0x03
)

const nonceLength = 16

// sequence numbers instantiations process-wide so that nonces never repeat,
// even for instances created in the same clock tick.
var sequence atomic.Uint64

// DRBG is a Hash-DRBG instance. The zero value is not usable; create one
// with New or obtain the process-wide instance with Default. A DRBG is not
// safe for concurrent use.
type DRBG struct {
	v     [SeedLength + 1]byte
	c     [SeedLength]byte
	count uint64

	src     entropy.Source
	zeroed  bool
	lastErr ErrorKind
}

// New instantiates a DRBG with its own storage. Without options it draws
// entropy from the operating system and builds the nonce from the current
// time and a sequence number. If the entropy source fails, no instance is
// returned and the error matches ErrNoEntropySource or
// ErrInsufficientEntropy. No instance exists to hold that failure for
// LastError, so use KindOf(err) to classify it.
func New(opts ...Option) (*DRBG, error) {
	cfg := applyOptions(opts)
	d := &DRBG{src: cfg.source}
	if err := d.instantiate(cfg); err != nil {
		d.Zero()
		return nil, err
	}
	return d, nil
}

func (d *DRBG) instantiate(cfg config) error {
	nonce := cfg.nonce
	if !cfg.hasNonce {
		ts := octets.PutUint64(uint64(cfg.clock().UnixNano()))
		seq := octets.PutUint64(sequence.Add(1))
		nonce = make([]byte, 0, nonceLength)
		nonce = append(append(nonce, ts[:]...), seq[:]...)
	}
	material := make([]byte, SecurityStrength+len(nonce))
	defer wipe(material)
	if _, err := entropy.Fill(d.src, material[:SecurityStrength]); err != nil {
		return fmt.Errorf("instantiate: %w", err)
	}
	copy(material[SecurityStrength:], nonce)
	d.seed(material)
	d.zeroed = false
	return nil
}

// seed replaces V and C with values derived from material and restarts the
// generate count.
func (d *DRBG) seed(material []byte) {
	d.v[0] = tagSeed
	stretch.DeriveInto(d.v[1:], material)
	// C = derive(0x00 || V), and V[0] already holds the 0x00 tag.
	stretch.DeriveInto(d.c[:], d.v[:])
	d.count = 0
}

// Reseed mixes SecurityStrength fresh entropy bytes into the state. On
// failure the state is left exactly as it was.
func (d *DRBG) Reseed() error {
	if err := d.reseed(); err != nil {
		return d.fail(err)
	}
	return nil
}

func (d *DRBG) reseed() error {
	if d.zeroed {
		return ErrZeroed
	}
	var material [1 + SeedLength + SecurityStrength]byte
	defer wipe(material[:])
	if _, err := entropy.Fill(d.src, material[1+SeedLength:]); err != nil {
		return fmt.Errorf("reseed: %w", err)
	}
	material[0] = tagReseed
	copy(material[1:], d.v[1:])
	d.seed(material[:])
	return nil
}

// Generate fills dst with len(dst) pseudorandom bytes and ratchets the
// state forward. A zero-length dst still advances the state. With
// predictionResistance set, the instance reseeds before producing output;
// it also reseeds once ReseedInterval generate operations have run since
// the last seed. Requests longer than MaxRequestLength fail with
// ErrInvalidRequestLength and change nothing.
func (d *DRBG) Generate(dst []byte, predictionResistance bool) (int, error) {
	if err := d.generate(dst, predictionResistance); err != nil {
		return 0, d.fail(err)
	}
	return len(dst), nil
}

func (d *DRBG) generate(dst []byte, predictionResistance bool) error {
	if len(dst) > MaxRequestLength {
		return fmt.Errorf("%w: %d bytes requested, limit is %d", ErrInvalidRequestLength, len(dst), MaxRequestLength)
	}
	if d.zeroed {
		return ErrZeroed
	}
	if predictionResistance || d.count == ReseedInterval {
		if err := d.reseed(); err != nil {
			return err
		}
	}
	if len(dst) > 0 {
		stretch.GenerateInto(dst, d.v[1:])
	}
	d.v[0] = tagGenerate
	h := sha256.Sum256(d.v[:])
	d.count++
	counter := octets.PutUint64(d.count)
	octets.AddAccumulate(d.v[1:], h[:])
	octets.AddAccumulate(d.v[1:], d.c[:])
	octets.AddAccumulate(d.v[1:], counter[:])
	wipe(h[:])
	return nil
}

// Bytes returns n freshly generated bytes.
func (d *DRBG) Bytes(n int, predictionResistance bool) ([]byte, error) {
	if n < 0 || n > MaxRequestLength {
		return nil, d.fail(fmt.Errorf("%w: %d bytes requested, limit is %d", ErrInvalidRequestLength, n, MaxRequestLength))
	}
	out := make([]byte, n)
	if _, err := d.Generate(out, predictionResistance); err != nil {
		return nil, err
	}
	return out, nil
}

// Zero overwrites V, C and the generate count. The instance refuses further
// use with ErrZeroed; the process-wide instance is re-instantiated by the
// next call to Default.
func (d *DRBG) Zero() {
	if d == nil {
		return
	}
	wipe(d.v[:])
	wipe(d.c[:])
	d.count = 0
	d.zeroed = true
	runtime.KeepAlive(d)
}

// wipe clears b in a way the compiler keeps.
func wipe(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}
