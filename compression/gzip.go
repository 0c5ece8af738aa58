package compression

import (
	"compress/gzip"
	"fmt"
	"io"
	"sync"
)

// Gzip returns a codec using gzip at the provided level. If level is 0,
// gzip.BestSpeed is used.
func Gzip(level int) Codec {
	if level == 0 {
		level = gzip.BestSpeed
	}
	codec := &gzipCodec{level: level}
	codec.writerPool.New = func() any {
		w, err := gzip.NewWriterLevel(io.Discard, level)
		if err != nil {
			panic(err)
		}
		return w
	}
	return codec
}

var defaultGzip = Gzip(gzip.BestSpeed)

// GzipDefault exposes a shared gzip codec using BestSpeed.
func GzipDefault() Codec { return defaultGzip }

type gzipCodec struct {
	level      int
	writerPool sync.Pool
}

func (*gzipCodec) Name() string  { return "gzip" }
func (*gzipCodec) Magic() []byte { return []byte{0x1f, 0x8b} }

func (c *gzipCodec) WrapWriter(w io.Writer) (io.WriteCloser, error) {
	gw := c.writerPool.Get().(*gzip.Writer)
	gw.Reset(w)
	return &pooledGzipWriter{Writer: gw, pool: &c.writerPool}, nil
}

func (c *gzipCodec) WrapReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return zr, nil
}

type pooledGzipWriter struct {
	*gzip.Writer
	pool *sync.Pool
}

func (w *pooledGzipWriter) Close() error {
	err := w.Writer.Close()
	w.Writer.Reset(io.Discard)
	w.pool.Put(w.Writer)
	return err
}
