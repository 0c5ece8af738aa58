//go:build !linux

package entropy

import "crypto/rand"

type osSource struct{}

// OS returns the host's cryptographic random source through crypto/rand.
func OS() Source { return osSource{} }

func (osSource) Fetch(p []byte) (int, error) {
	return FromReader(rand.Reader).Fetch(p)
}
