package service

import (
	"context"
	"sync"
	"time"
)

// capabilityTTL bounds how long a probe verdict is reused before the store is
// asked again. Fixed, not configurable.
const capabilityTTL = 5 * time.Minute

// CapabilityChecker is the persistence-layer capability check consumed by the
// probe.
type CapabilityChecker interface {
	ExtensionExists(ctx context.Context) (bool, error)
}

// CapabilityProbe determines whether the native vector-indexed search path is
// usable, memoizing the verdict for capabilityTTL. Probe failures of any kind
// resolve to "unavailable" so that search degrades instead of erroring.
type CapabilityProbe struct {
	store CapabilityChecker
	ttl   time.Duration
	now   func() time.Time

	mu        sync.Mutex
	available bool
	checkedAt time.Time
}

// NewCapabilityProbe creates a new CapabilityProbe instance
func NewCapabilityProbe(store CapabilityChecker) *CapabilityProbe {
	return &CapabilityProbe{
		store: store,
		ttl:   capabilityTTL,
		now:   time.Now,
	}
}

// NativeSearchAvailable reports whether native vector search can be used. The
// answer is cached; after the TTL elapses the store is probed again.
func (p *CapabilityProbe) NativeSearchAvailable(ctx context.Context) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.checkedAt.IsZero() && p.now().Sub(p.checkedAt) < p.ttl {
		return p.available
	}

	available, err := p.store.ExtensionExists(ctx)
	if err != nil {
		available = false
	}

	p.available = available
	p.checkedAt = p.now()
	return p.available
}
