package cavp

import (
	"bytes"
	"fmt"
	"io"
	"slices"

	"google.golang.org/protobuf/encoding/protowire"
)

// binaryMagic starts every binary fixture.
var binaryMagic = []byte("HDRBGTV\x01")

// Field numbers of the binary encoding. A fixture is the magic followed by
// repeated Vector messages in fields 1 (plain) and 2 (prediction resistant).
const (
	fieldPlain protowire.Number = 1
	fieldPR    protowire.Number = 2

	fieldEntropy  protowire.Number = 1
	fieldNonce    protowire.Number = 2
	fieldReseed   protowire.Number = 3
	fieldReseedPR protowire.Number = 4
	fieldExpected protowire.Number = 5
)

// MarshalBinary encodes s in the binary fixture format. Unlike the text
// layout it accepts any field lengths.
func (s *Suite) MarshalBinary() ([]byte, error) {
	out := slices.Clone(binaryMagic)
	for _, section := range []struct {
		num     protowire.Number
		vectors []Vector
	}{{fieldPlain, s.Plain}, {fieldPR, s.PredictionResistant}} {
		for _, v := range section.vectors {
			out = protowire.AppendTag(out, section.num, protowire.BytesType)
			out = protowire.AppendBytes(out, v.marshal())
		}
	}
	return out, nil
}

func (v *Vector) marshal() []byte {
	var b []byte
	for _, f := range []struct {
		num protowire.Number
		val []byte
	}{
		{fieldEntropy, v.Entropy},
		{fieldNonce, v.Nonce},
		{fieldReseed, v.Reseed},
		{fieldReseedPR, v.ReseedPR},
		{fieldExpected, v.Expected},
	} {
		if len(f.val) == 0 {
			continue
		}
		b = protowire.AppendTag(b, f.num, protowire.BytesType)
		b = protowire.AppendBytes(b, f.val)
	}
	return b
}

// UnmarshalBinary decodes a binary fixture into s. Unknown fields are
// skipped.
func (s *Suite) UnmarshalBinary(data []byte) error {
	if !bytes.HasPrefix(data, binaryMagic) {
		return fmt.Errorf("%w: missing binary fixture magic", ErrMalformed)
	}
	data = data[len(binaryMagic):]
	*s = Suite{}
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		data = data[n:]
		if typ != protowire.BytesType || (num != fieldPlain && num != fieldPR) {
			n = protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
			}
			data = data[n:]
			continue
		}
		msg, n := protowire.ConsumeBytes(data)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		data = data[n:]
		var v Vector
		if err := v.unmarshal(msg); err != nil {
			return err
		}
		if num == fieldPlain {
			s.Plain = append(s.Plain, v)
		} else {
			s.PredictionResistant = append(s.PredictionResistant, v)
		}
	}
	return nil
}

func (v *Vector) unmarshal(b []byte) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		val, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return fmt.Errorf("%w: %w", ErrMalformed, protowire.ParseError(n))
		}
		b = b[n:]
		val = slices.Clone(val)
		switch num {
		case fieldEntropy:
			v.Entropy = val
		case fieldNonce:
			v.Nonce = val
		case fieldReseed:
			v.Reseed = val
		case fieldReseedPR:
			v.ReseedPR = val
		case fieldExpected:
			v.Expected = val
		}
	}
	return nil
}

// WriteBinary writes the binary encoding of s to w.
func WriteBinary(w io.Writer, s *Suite) error {
	data, err := s.MarshalBinary()
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	return nil
}
