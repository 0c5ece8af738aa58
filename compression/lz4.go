package compression

import (
	"bytes"
	"io"
	"sync"

	"github.com/pierrec/lz4/v4"
)

// LZ4 returns a pooled codec using the LZ4 frame format.
func LZ4() Codec {
	return defaultLZ4
}

var defaultLZ4 = newLZ4()

func newLZ4() *lz4Codec {
	codec := &lz4Codec{}
	codec.writerPool.New = func() any {
		return lz4.NewWriter(io.Discard)
	}
	codec.readerPool.New = func() any {
		return lz4.NewReader(bytes.NewReader(nil))
	}
	return codec
}

type lz4Codec struct {
	writerPool sync.Pool
	readerPool sync.Pool
}

func (*lz4Codec) Name() string { return "lz4" }

// Magic is the little-endian frame magic number 0x184D2204.
func (*lz4Codec) Magic() []byte { return []byte{0x04, 0x22, 0x4d, 0x18} }

func (c *lz4Codec) WrapWriter(w io.Writer) (io.WriteCloser, error) {
	lw := c.writerPool.Get().(*lz4.Writer)
	lw.Reset(w)
	return &lz4WriteCloser{Writer: lw, pool: &c.writerPool}, nil
}

func (c *lz4Codec) WrapReader(r io.Reader) (io.ReadCloser, error) {
	lr := c.readerPool.Get().(*lz4.Reader)
	lr.Reset(r)
	return &lz4ReadCloser{reader: lr, pool: &c.readerPool}, nil
}

type lz4WriteCloser struct {
	*lz4.Writer
	pool *sync.Pool
}

func (w *lz4WriteCloser) Close() error {
	err := w.Writer.Close()
	w.Writer.Reset(io.Discard)
	w.pool.Put(w.Writer)
	return err
}

type lz4ReadCloser struct {
	reader *lz4.Reader
	pool   *sync.Pool
}

func (r *lz4ReadCloser) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r *lz4ReadCloser) Close() error {
	r.reader.Reset(bytes.NewReader(nil))
	r.pool.Put(r.reader)
	return nil
}
