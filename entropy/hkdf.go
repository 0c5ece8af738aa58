package entropy

import (
	"fmt"
	"io"
	"slices"

	"golang.org/x/crypto/hkdf"

	"pkt.systems/hdrbg/internal/octets"
	"pkt.systems/hdrbg/sha256"
)

// HKDF is a deterministic Source expanding a secret with HKDF-SHA256. It lets
// a DRBG be seeded reproducibly from a key or passphrase, e.g. to regenerate
// the same stream on another machine. A single HKDF expansion is capped at
// 255 digests, so the source moves to a fresh epoch (info || uint64be(epoch))
// whenever the current expansion is exhausted.
//
// HKDF is not safe for concurrent use.
type HKDF struct {
	prk    []byte
	info   []byte
	epoch  uint64
	used   int
	reader io.Reader
}

const maxExpansion = 255 * sha256.Size

// NewHKDF extracts a pseudorandom key from secret and salt and returns a
// Source expanding it under info.
func NewHKDF(secret, salt, info []byte) *HKDF {
	return &HKDF{
		prk:  hkdf.Extract(sha256.New, secret, salt),
		info: slices.Clone(info),
	}
}

func (h *HKDF) expand() io.Reader {
	epoch := octets.PutUint64(h.epoch)
	info := append(slices.Clone(h.info), epoch[:]...)
	return hkdf.Expand(sha256.New, h.prk, info)
}

// Fetch fills p from the expansion stream.
func (h *HKDF) Fetch(p []byte) (int, error) {
	if h.prk == nil {
		return 0, ErrNoEntropySource
	}
	total := 0
	for total < len(p) {
		if h.reader == nil {
			h.reader = h.expand()
			h.used = 0
		}
		want := min(len(p)-total, maxExpansion-h.used)
		n, err := io.ReadFull(h.reader, p[total:total+want])
		total += n
		h.used += n
		if err != nil {
			return total, fmt.Errorf("%w: hkdf: %w", ErrNoEntropySource, err)
		}
		if h.used == maxExpansion {
			h.reader = nil
			h.epoch++
		}
	}
	return total, nil
}

// Zero discards the pseudorandom key; later fetches fail.
func (h *HKDF) Zero() {
	clear(h.prk)
	h.prk = nil
	h.reader = nil
}
