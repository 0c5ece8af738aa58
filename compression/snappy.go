package compression

import (
	"bytes"
	"io"
	"sync"

	"github.com/golang/snappy"
)

// Snappy returns a pooled codec using the Snappy framing format.
func Snappy() Codec {
	return defaultSnappy
}

var defaultSnappy = newSnappy()

func newSnappy() *snappyCodec {
	codec := &snappyCodec{}
	codec.writerPool.New = func() any {
		return snappy.NewBufferedWriter(io.Discard)
	}
	codec.readerPool.New = func() any {
		return snappy.NewReader(bytes.NewReader(nil))
	}
	return codec
}

type snappyCodec struct {
	writerPool sync.Pool
	readerPool sync.Pool
}

func (*snappyCodec) Name() string { return "snappy" }

// Magic is the framing format's stream identifier chunk.
func (*snappyCodec) Magic() []byte {
	return []byte{0xff, 0x06, 0x00, 0x00, 's', 'N', 'a', 'P', 'p', 'Y'}
}

func (c *snappyCodec) WrapWriter(w io.Writer) (io.WriteCloser, error) {
	sw := c.writerPool.Get().(*snappy.Writer)
	sw.Reset(w)
	return &snappyWriteCloser{Writer: sw, pool: &c.writerPool}, nil
}

func (c *snappyCodec) WrapReader(r io.Reader) (io.ReadCloser, error) {
	sr := c.readerPool.Get().(*snappy.Reader)
	sr.Reset(r)
	return &snappyReadCloser{reader: sr, pool: &c.readerPool}, nil
}

type snappyWriteCloser struct {
	*snappy.Writer
	pool *sync.Pool
}

func (w *snappyWriteCloser) Close() error {
	err := w.Writer.Close()
	w.Writer.Reset(io.Discard)
	w.pool.Put(w.Writer)
	return err
}

type snappyReadCloser struct {
	reader *snappy.Reader
	pool   *sync.Pool
}

func (r *snappyReadCloser) Read(p []byte) (int, error) {
	return r.reader.Read(p)
}

func (r *snappyReadCloser) Close() error {
	r.reader.Reset(bytes.NewReader(nil))
	r.pool.Put(r.reader)
	return nil
}
