// Package stream exposes a DRBG as an io.Reader and copies arbitrary amounts
// of generated output to an io.Writer, splitting every request into chunks
// the generator accepts.
package stream

import (
	"io"
)

// Generator produces pseudorandom bytes. *hdrbg.DRBG satisfies it.
type Generator interface {
	Generate(dst []byte, predictionResistance bool) (int, error)
}

// NewReader returns an io.Reader whose Read fills the whole buffer from g,
// one Generate call per chunk. The first generator error is returned by that
// Read and every later one. The reader is as safe for concurrent use as g
// is, which for *hdrbg.DRBG means not at all.
func NewReader(g Generator, opts ...Option) io.Reader {
	return &reader{g: g, cfg: applyOptions(opts)}
}

type reader struct {
	g   Generator
	cfg config
	err error
}

func (r *reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	n := 0
	for n < len(p) {
		end := min(len(p), n+r.cfg.chunkSize)
		if _, err := r.g.Generate(p[n:end], r.cfg.predictionResistance); err != nil {
			r.err = err
			return n, err
		}
		n = end
	}
	return n, nil
}
