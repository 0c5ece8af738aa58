package cavp

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"pkt.systems/hdrbg/compression"
)

// Load reads a fixture in either format, optionally compressed with any
// codec known to the compression package.
func Load(r io.Reader) (*Suite, error) {
	codec, r, err := compression.Detect(r)
	if err != nil {
		return nil, err
	}
	rc, err := codec.WrapReader(r)
	if err != nil {
		return nil, fmt.Errorf("open %s fixture: %w", codec.Name(), err)
	}
	defer rc.Close()
	br := bufio.NewReader(rc)
	head, err := br.Peek(len(binaryMagic))
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	if bytes.Equal(head, binaryMagic) {
		data, err := io.ReadAll(br)
		if err != nil {
			return nil, fmt.Errorf("read fixture: %w", err)
		}
		s := &Suite{}
		if err := s.UnmarshalBinary(data); err != nil {
			return nil, err
		}
		return s, nil
	}
	return ParseText(br)
}

// LoadFile opens path and calls Load.
func LoadFile(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixture: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Encode writes s in the named format ("text" or "binary") through codec.
func Encode(w io.Writer, s *Suite, format string, codec compression.Codec) error {
	if codec == nil {
		codec = compression.None()
	}
	wc, err := codec.WrapWriter(w)
	if err != nil {
		return fmt.Errorf("open %s writer: %w", codec.Name(), err)
	}
	switch format {
	case "", "text":
		err = WriteText(wc, s)
	case "binary":
		err = WriteBinary(wc, s)
	default:
		err = fmt.Errorf("%w: unknown format %q", ErrMalformed, format)
	}
	if cerr := wc.Close(); err == nil {
		err = cerr
	}
	return err
}
