// Package compression wraps fixture streams in an optional codec and
// recognises the codec of an incoming stream from its leading magic bytes.
package compression

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Codec wraps streams with compression and decompression stages.
type Codec interface {
	// Name is the identifier accepted by ByName.
	Name() string
	// Magic returns the bytes every stream produced by this codec starts
	// with, or nil when the codec has no signature.
	Magic() []byte
	WrapWriter(io.Writer) (io.WriteCloser, error)
	WrapReader(io.Reader) (io.ReadCloser, error)
}

// ErrUnknownCodec is returned by ByName for unrecognised names.
var ErrUnknownCodec = errors.New("hdrbg/compression: unknown codec")

// Names lists the codecs known to ByName in a stable order.
func Names() []string {
	return []string{"none", "gzip", "snappy", "lz4"}
}

// ByName returns the codec registered under name.
func ByName(name string) (Codec, error) {
	switch name {
	case "", "none":
		return None(), nil
	case "gzip":
		return GzipDefault(), nil
	case "snappy":
		return Snappy(), nil
	case "lz4":
		return LZ4(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

const maxMagic = 10

// Detect peeks at the head of r and returns the matching codec together with
// a reader that still yields the complete stream. Streams without a known
// signature are reported as None.
func Detect(r io.Reader) (Codec, io.Reader, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(maxMagic)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("detect compression: %w", err)
	}
	for _, c := range []Codec{GzipDefault(), Snappy(), LZ4()} {
		if bytes.HasPrefix(head, c.Magic()) {
			return c, br, nil
		}
	}
	return None(), br, nil
}

// None returns the pass-through codec.
func None() Codec { return noneCodec{} }

type noneCodec struct{}

func (noneCodec) Name() string  { return "none" }
func (noneCodec) Magic() []byte { return nil }

func (noneCodec) WrapWriter(w io.Writer) (io.WriteCloser, error) {
	return nopWriteCloser{w}, nil
}

func (noneCodec) WrapReader(r io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(r), nil
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
