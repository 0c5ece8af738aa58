package stream

import (
	"fmt"
	"io"
)

// Copy writes exactly n generated bytes to w and returns the number written.
// Output passes through one chunk buffer that is zeroed after every write.
func Copy(w io.Writer, g Generator, n int64, opts ...Option) (int64, error) {
	if n < 0 {
		return 0, fmt.Errorf("hdrbg/stream: negative byte count %d", n)
	}
	cfg := applyOptions(opts)
	cb := borrowBuffer(cfg)
	defer releaseBuffer(cfg.bufferPool, cb)

	var written int64
	for written < n {
		chunk := cb.buf[:min(int64(len(cb.buf)), n-written)]
		if _, err := g.Generate(chunk, cfg.predictionResistance); err != nil {
			return written, fmt.Errorf("generate: %w", err)
		}
		m, err := w.Write(chunk)
		clear(chunk)
		written += int64(m)
		if err != nil {
			return written, err
		}
		if m != len(chunk) {
			return written, io.ErrShortWrite
		}
	}
	return written, nil
}
