package replay

import (
	"context"
	"sync"
	"time"
)

// Memory is an in-process replay store. Entries expire after the retention
// window; expired entries are pruned lazily on lookup.
type Memory struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewMemory creates an in-process store retaining identifiers for ttl. A zero
// ttl retains them forever.
func NewMemory(ttl time.Duration) *Memory {
	return &Memory{
		seen: make(map[string]time.Time),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Seen reports whether the message identifier is within the retention window.
func (m *Memory) Seen(ctx context.Context, messageID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prune()

	_, ok := m.seen[messageID]
	return ok, nil
}

// Remember records the message identifier.
func (m *Memory) Remember(ctx context.Context, messageID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.seen[messageID] = m.now()
	return nil
}

// prune drops expired entries. Caller holds the lock.
func (m *Memory) prune() {
	if m.ttl <= 0 {
		return
	}
	cutoff := m.now().Add(-m.ttl)
	for id, at := range m.seen {
		if at.Before(cutoff) {
			delete(m.seen, id)
		}
	}
}
