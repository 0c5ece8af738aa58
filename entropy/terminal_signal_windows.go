//go:build windows

package entropy

import "os"

func terminalSignals() []os.Signal {
	return []os.Signal{os.Interrupt}
}
