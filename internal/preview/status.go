package preview

import "sync"

// buildStatus tracks the outcome of the latest build for /health.
type buildStatus struct {
	mu           sync.RWMutex
	lastError    error
	hasGoodBuild bool // true if at least one successful build exists
}

func (bs *buildStatus) setError(err error) {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = err
}

func (bs *buildStatus) setSuccess() {
	bs.mu.Lock()
	defer bs.mu.Unlock()
	bs.lastError = nil
	bs.hasGoodBuild = true
}

func (bs *buildStatus) get() (hasError bool, err error, hasGoodBuild bool) {
	bs.mu.RLock()
	defer bs.mu.RUnlock()
	return bs.lastError != nil, bs.lastError, bs.hasGoodBuild
}
