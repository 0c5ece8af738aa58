package hdrbg

import (
	"errors"

	"pkt.systems/hdrbg/entropy"
)

var (
	// ErrOutOfMemory is part of the error taxonomy shared with other
	// bindings of this generator. The Go runtime aborts on exhaustion, so
	// this package never returns it.
	ErrOutOfMemory = errors.New("hdrbg: out of memory")
	// ErrNoEntropySource indicates that the entropy source could not be
	// reached.
	ErrNoEntropySource = entropy.ErrNoEntropySource
	// ErrInsufficientEntropy indicates that the entropy source returned
	// fewer bytes than requested. The error chain carries an
	// *entropy.ShortReadError with the obtained count.
	ErrInsufficientEntropy = entropy.ErrInsufficientEntropy
	// ErrInvalidRequestLength indicates a request above MaxRequestLength.
	ErrInvalidRequestLength = errors.New("hdrbg: invalid request length")
	// ErrInvalidModulus indicates a zero modulus.
	ErrInvalidModulus = errors.New("hdrbg: invalid modulus")
	// ErrInvalidRange indicates a range whose left bound is not below its
	// right bound.
	ErrInvalidRange = errors.New("hdrbg: invalid range")
	// ErrZeroed indicates use of an instance after Zero.
	ErrZeroed = errors.New("hdrbg: instance has been zeroed")
)

// ErrorKind classifies failures. The zero value None means no error.
type ErrorKind uint8

const (
	None ErrorKind = iota
	OutOfMemory
	NoEntropySource
	InsufficientEntropy
	InvalidRequestLength
	InvalidModulus
	InvalidRange
	Zeroed
)

var kindNames = [...]string{
	None:                 "none",
	OutOfMemory:          "out of memory",
	NoEntropySource:      "no entropy source",
	InsufficientEntropy:  "insufficient entropy",
	InvalidRequestLength: "invalid request length",
	InvalidModulus:       "invalid modulus",
	InvalidRange:         "invalid range",
	Zeroed:               "zeroed",
}

func (k ErrorKind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// KindOf maps err to the most specific ErrorKind it matches. It returns
// None for nil and for errors this package does not produce.
func KindOf(err error) ErrorKind {
	switch {
	case err == nil:
		return None
	case errors.Is(err, ErrOutOfMemory):
		return OutOfMemory
	case errors.Is(err, ErrInsufficientEntropy):
		return InsufficientEntropy
	case errors.Is(err, ErrNoEntropySource):
		return NoEntropySource
	case errors.Is(err, ErrInvalidRequestLength):
		return InvalidRequestLength
	case errors.Is(err, ErrInvalidModulus):
		return InvalidModulus
	case errors.Is(err, ErrInvalidRange):
		return InvalidRange
	case errors.Is(err, ErrZeroed):
		return Zeroed
	}
	return None
}

// fail latches the kind of err and hands err back.
func (d *DRBG) fail(err error) error {
	d.lastErr = KindOf(err)
	return err
}

// LastError returns the kind of the most recent failure on this instance and
// resets it to None.
func (d *DRBG) LastError() ErrorKind {
	k := d.lastErr
	d.lastErr = None
	return k
}
