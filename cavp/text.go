package cavp

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ParseText reads the hex-text layout: a decimal vector count followed by
// that many vectors without prediction resistance, then a second count and
// its vectors with prediction resistance. Each vector is 48 bytes of entropy
// and nonce, 32 bytes of reseed entropy, another 32 in the second section,
// and 128 expected bytes. Hex may be split by any whitespace; text after '#'
// on a line is ignored.
func ParseText(r io.Reader) (*Suite, error) {
	tok := &tokenizer{sc: bufio.NewScanner(r)}
	tok.sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	suite := &Suite{}
	for _, pr := range []bool{false, true} {
		count, err := tok.count()
		if err != nil {
			return nil, err
		}
		vectors := make([]Vector, 0, min(count, 1024))
		for range count {
			var v Vector
			seeder, err := tok.bytes(SeederLength)
			if err != nil {
				return nil, err
			}
			v.Entropy, v.Nonce = seeder[:EntropyLength], seeder[EntropyLength:]
			if v.Reseed, err = tok.bytes(ReseedLength); err != nil {
				return nil, err
			}
			if pr {
				if v.ReseedPR, err = tok.bytes(ReseedLength); err != nil {
					return nil, err
				}
			}
			if v.Expected, err = tok.bytes(ExpectedLength); err != nil {
				return nil, err
			}
			vectors = append(vectors, v)
		}
		if pr {
			suite.PredictionResistant = vectors
		} else {
			suite.Plain = vectors
		}
	}
	return suite, nil
}

type tokenizer struct {
	sc     *bufio.Scanner
	fields []string
	line   int
}

func (t *tokenizer) next() (string, error) {
	for len(t.fields) == 0 {
		if !t.sc.Scan() {
			if err := t.sc.Err(); err != nil {
				return "", fmt.Errorf("read fixture: %w", err)
			}
			return "", fmt.Errorf("%w: unexpected end of input after line %d", ErrMalformed, t.line)
		}
		t.line++
		text, _, _ := strings.Cut(t.sc.Text(), "#")
		t.fields = strings.Fields(text)
	}
	f := t.fields[0]
	t.fields = t.fields[1:]
	return f, nil
}

func (t *tokenizer) count() (int, error) {
	f, err := t.next()
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(f)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: line %d: bad vector count %q", ErrMalformed, t.line, f)
	}
	return n, nil
}

func (t *tokenizer) bytes(n int) ([]byte, error) {
	out := make([]byte, 0, n)
	for len(out) < n {
		f, err := t.next()
		if err != nil {
			return nil, err
		}
		want := 2 * (n - len(out))
		if len(f) > want {
			t.fields = append([]string{f[want:]}, t.fields...)
			f = f[:want]
		}
		b, err := hex.DecodeString(f)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrMalformed, t.line, err)
		}
		out = append(out, b...)
	}
	return out, nil
}

// WriteText writes s in the layout ParseText reads, one field per line and
// a blank line between vectors.
func WriteText(w io.Writer, s *Suite) error {
	bw := bufio.NewWriter(w)
	for _, section := range []struct {
		pr      bool
		vectors []Vector
	}{{false, s.Plain}, {true, s.PredictionResistant}} {
		fmt.Fprintf(bw, "%d\n", len(section.vectors))
		for i, v := range section.vectors {
			if err := checkTextLengths(v, section.pr); err != nil {
				return fmt.Errorf("vector %d: %w", i, err)
			}
			fmt.Fprintf(bw, "\n%x%x\n%x\n", v.Entropy, v.Nonce, v.Reseed)
			if section.pr {
				fmt.Fprintf(bw, "%x\n", v.ReseedPR)
			}
			fmt.Fprintf(bw, "%x\n", v.Expected)
		}
		fmt.Fprintln(bw)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("write fixture: %w", err)
	}
	return nil
}

func checkTextLengths(v Vector, pr bool) error {
	switch {
	case len(v.Entropy) != EntropyLength,
		len(v.Nonce) != NonceLength,
		len(v.Reseed) != ReseedLength,
		pr && len(v.ReseedPR) != ReseedLength,
		!pr && len(v.ReseedPR) != 0,
		len(v.Expected) != ExpectedLength:
		return fmt.Errorf("%w: field lengths do not fit the text layout", ErrMalformed)
	}
	return nil
}
