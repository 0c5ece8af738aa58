package stream

import (
	"sync"
	"sync/atomic"
)

// chunkBuffer is scratch space for one chunk of generated output so it can
// be pooled between copies.
type chunkBuffer struct {
	buf   []byte
	inUse uint32
}

func newChunkBuffer(chunkSize int) *chunkBuffer {
	return &chunkBuffer{buf: make([]byte, chunkSize)}
}

func borrowBuffer(cfg config) *chunkBuffer {
	if cfg.bufferPool == nil {
		return newChunkBuffer(cfg.chunkSize)
	}
	if v := cfg.bufferPool.Get(); v != nil {
		if cb, ok := v.(*chunkBuffer); ok && cap(cb.buf) >= cfg.chunkSize {
			cb.buf = cb.buf[:cfg.chunkSize]
			atomic.StoreUint32(&cb.inUse, 1)
			return cb
		}
	}
	cb := newChunkBuffer(cfg.chunkSize)
	atomic.StoreUint32(&cb.inUse, 1)
	return cb
}

// releaseBuffer wipes cb and, when pooling, hands it back to pool. Generated
// bytes never linger in a pooled buffer.
func releaseBuffer(pool *sync.Pool, cb *chunkBuffer) {
	if cb == nil {
		return
	}
	clear(cb.buf[:cap(cb.buf)])
	if pool == nil {
		return
	}
	if atomic.SwapUint32(&cb.inUse, 0) == 0 {
		panic("hdrbg/stream: chunk buffer released twice or use-after-free detected")
	}
	pool.Put(cb)
}
