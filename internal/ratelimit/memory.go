package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// MemoryStore keeps windows in a mutex-guarded map.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*Window
}

// NewMemoryStore returns an empty store. Expired windows stay until Sweep
// or RunSweeper removes them.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{windows: make(map[string]*Window)}
}

// Increment implements Store.
func (m *MemoryStore) Increment(_ context.Context, key string, window time.Duration, now time.Time) (Window, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || w.ResetAt.Before(now) {
		w = &Window{Count: 1, ResetAt: now.Add(window)}
		m.windows[key] = w
		return *w, nil
	}
	w.Count++
	return *w, nil
}

// Get implements Store. Expired windows are reported as absent.
func (m *MemoryStore) Get(_ context.Context, key string, now time.Time) (Window, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	w, ok := m.windows[key]
	if !ok || w.ResetAt.Before(now) {
		return Window{}, false, nil
	}
	return *w, true, nil
}

// Sweep drops every window that expired before now and returns how many
// were removed.
func (m *MemoryStore) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for key, w := range m.windows {
		if w.ResetAt.Before(now) {
			delete(m.windows, key)
			removed++
		}
	}
	return removed
}

// Len is the number of tracked windows.
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.windows)
}

// RunSweeper sweeps expired windows every interval until ctx is cancelled.
func (m *MemoryStore) RunSweeper(ctx context.Context, interval time.Duration, log zerolog.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if removed := m.Sweep(now); removed > 0 {
				log.Debug().Int("removed", removed).Msg("Swept expired rate limit windows")
			}
		}
	}
}
