package session

import (
	"context"
	"sync"
	"time"

	"prados-legal-be/pkg/apperror"
)

const DefaultIdleTimeout = 2 * time.Hour

type entry struct {
	held           bool
	lastUsed       time.Time
	evictOnRelease bool
}

// Guard serializes work per session id. Acquire never waits: a session that
// is already held is rejected with a busy error.
type Guard struct {
	mu      sync.Mutex
	entries map[string]*entry
	idle    time.Duration
	now     func() time.Time
}

// Handle is the proof of an acquired session. Release is idempotent.
type Handle struct {
	id       string
	guard    *Guard
	released bool
}

func NewGuard(idle time.Duration) *Guard {
	return &Guard{
		entries: make(map[string]*entry),
		idle:    idle,
		now:     time.Now,
	}
}

func (h *Handle) SessionID() string {
	return h.id
}

func (h *Handle) Release() {
	h.guard.Release(h)
}

func (g *Guard) Acquire(sessionID string) (*Handle, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if g.idle > 0 {
		g.sweepLocked(now, g.idle)
	}

	e, ok := g.entries[sessionID]
	if !ok {
		e = &entry{}
		g.entries[sessionID] = e
	}
	if e.held {
		e.lastUsed = now
		return nil, apperror.SessionBusy()
	}
	e.held = true
	e.lastUsed = now
	return &Handle{id: sessionID, guard: g}, nil
}

func (g *Guard) Release(h *Handle) {
	if h == nil {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	if h.released {
		return
	}
	h.released = true

	e, ok := g.entries[h.id]
	if !ok {
		return
	}
	e.held = false
	e.lastUsed = g.now()
	if e.evictOnRelease {
		delete(g.entries, h.id)
	}
}

// Sweep drops entries idle for longer than idle. Held entries are never
// removed. It returns the number of evicted entries.
func (g *Guard) Sweep(idle time.Duration) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.sweepLocked(g.now(), idle)
}

func (g *Guard) sweepLocked(now time.Time, idle time.Duration) int {
	removed := 0
	for id, e := range g.entries {
		if e.held {
			continue
		}
		if now.Sub(e.lastUsed) > idle {
			delete(g.entries, id)
			removed++
		}
	}
	return removed
}

// Evict removes the entry for an explicitly closed session. A held entry is
// removed when its holder releases it.
func (g *Guard) Evict(sessionID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	e, ok := g.entries[sessionID]
	if !ok {
		return
	}
	if e.held {
		e.evictOnRelease = true
		return
	}
	delete(g.entries, sessionID)
}

func (g *Guard) Len() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.entries)
}

// RunJanitor sweeps on a fixed interval until ctx is done.
func (g *Guard) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 || g.idle <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.Sweep(g.idle)
		}
	}
}
