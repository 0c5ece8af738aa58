//go:build !windows

package entropy

import (
	"os"
	"syscall"
)

func terminalSignals() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT}
}
