package hdrbg

import "sync"

var (
	defaultMu       sync.Mutex
	defaultInstance DRBG
	defaultReady    bool
)

// Default returns the process-wide DRBG, instantiating it from the operating
// system entropy source on first use. After Zero the same instance is
// re-instantiated in place by the next call. The mutex only guards
// construction: like any DRBG, the returned instance must not be used from
// several goroutines at once.
func Default() (*DRBG, error) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	d := &defaultInstance
	if defaultReady && !d.zeroed {
		return d, nil
	}
	cfg := applyOptions(nil)
	d.src = cfg.source
	d.lastErr = None
	if err := d.instantiate(cfg); err != nil {
		d.Zero()
		defaultReady = false
		return nil, err
	}
	defaultReady = true
	return d, nil
}
