package entropy

import "slices"

// Replay is a deterministic Source that hands out a pre-recorded byte stream
// in order. It exists for known-answer testing: each Fetch consumes the next
// len(p) bytes, and once the recording runs dry fetches come up short.
//
// Replay is not safe for concurrent use.
type Replay struct {
	data []byte
	off  int
}

// NewReplay returns a Replay that yields the concatenation of chunks.
func NewReplay(chunks ...[]byte) *Replay {
	r := &Replay{}
	for _, c := range chunks {
		r.Append(c)
	}
	return r
}

// Append queues more recorded bytes behind the ones not yet consumed.
func (r *Replay) Append(b []byte) {
	if r.off > 0 && r.off == len(r.data) {
		clear(r.data)
		r.data = r.data[:0]
		r.off = 0
	}
	r.data = append(r.data, b...)
}

// Remaining reports how many recorded bytes are left.
func (r *Replay) Remaining() int {
	return len(r.data) - r.off
}

// Fetch copies the next recorded bytes into p.
func (r *Replay) Fetch(p []byte) (int, error) {
	n := copy(p, r.data[r.off:])
	clear(r.data[r.off : r.off+n])
	r.off += n
	return n, nil
}

// Bytes returns a copy of the bytes not yet consumed.
func (r *Replay) Bytes() []byte {
	return slices.Clone(r.data[r.off:])
}
