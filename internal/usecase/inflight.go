package usecase

import (
	"sync"

	domainErrors "github.com/onsiteclub/account-service/internal/domain/errors"
)

// InflightGuard allows at most one identity or billing call in flight per
// (action, key) pair. A second submission while one is pending is
// suppressed, not queued.
type InflightGuard struct {
	mu      sync.Mutex
	pending map[string]bool
}

// NewInflightGuard creates a new guard.
func NewInflightGuard() *InflightGuard {
	return &InflightGuard{pending: make(map[string]bool)}
}

// Begin claims the slot for key. It returns ErrRequestInFlight when a
// previous call for the same key has not finished.
func (g *InflightGuard) Begin(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.pending[key] {
		return domainErrors.ErrRequestInFlight
	}
	g.pending[key] = true
	return nil
}

// End releases the slot for key.
func (g *InflightGuard) End(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.pending, key)
}
