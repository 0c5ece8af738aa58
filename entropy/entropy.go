// Package entropy provides the sources a DRBG draws seed material from. A
// Source is asked once per (re)seed for a fixed number of bytes; it is never
// retried and never asked to block beyond its single underlying call.
package entropy

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEntropySource indicates that the entropy source could not be
	// reached at all.
	ErrNoEntropySource = errors.New("hdrbg/entropy: entropy source not found")
	// ErrInsufficientEntropy indicates that the source returned fewer bytes
	// than requested.
	ErrInsufficientEntropy = errors.New("hdrbg/entropy: insufficient entropy")
)

// Source yields entropy. Fetch performs a single underlying read into p and
// reports how many bytes were obtained. A Source that cannot be reached
// returns an error; a short read is reported through n < len(p).
type Source interface {
	Fetch(p []byte) (n int, err error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(p []byte) (int, error)

// Fetch calls f(p).
func (f SourceFunc) Fetch(p []byte) (int, error) { return f(p) }

// ShortReadError reports a fetch that returned fewer bytes than requested.
type ShortReadError struct {
	Want int
	Got  int
}

func (e *ShortReadError) Error() string {
	return fmt.Sprintf("%v: wanted %d bytes, got %d", ErrInsufficientEntropy, e.Want, e.Got)
}

// Is reports ErrInsufficientEntropy as the matching sentinel.
func (e *ShortReadError) Is(target error) bool {
	return target == ErrInsufficientEntropy
}

// Fill requests exactly len(p) bytes from src with a single Fetch. It returns
// the number of bytes obtained together with an error that matches
// ErrNoEntropySource when the source failed outright, or a *ShortReadError
// (matching ErrInsufficientEntropy) when the read came up short.
func Fill(src Source, p []byte) (int, error) {
	if src == nil {
		return 0, ErrNoEntropySource
	}
	n, err := src.Fetch(p)
	if n < 0 || n > len(p) {
		return 0, fmt.Errorf("%w: source reported %d bytes for a %d byte request", ErrNoEntropySource, n, len(p))
	}
	if err != nil {
		if errors.Is(err, ErrNoEntropySource) || errors.Is(err, ErrInsufficientEntropy) {
			return n, err
		}
		return n, fmt.Errorf("%w: %w", ErrNoEntropySource, err)
	}
	if n < len(p) {
		return n, &ShortReadError{Want: len(p), Got: n}
	}
	return n, nil
}
