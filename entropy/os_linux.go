//go:build linux

package entropy

import (
	"fmt"

	"golang.org/x/sys/unix"
)

type osSource struct{}

// OS returns the host's cryptographic random source. On Linux this is a
// single getrandom(2) call without GRND_NONBLOCK; it may return fewer bytes
// than requested if interrupted, which Fill reports as insufficient entropy.
func OS() Source { return osSource{} }

func (osSource) Fetch(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	n, err := unix.Getrandom(p, 0)
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: getrandom: %w", ErrNoEntropySource, err)
	}
	return n, nil
}
