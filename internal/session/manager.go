package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager keeps the live sessions of this process in memory.
type Manager struct {
	selector MoveSelector
	opts     []Option
	now      func() time.Time
	metrics  *metrics

	mu       sync.RWMutex
	sessions map[string]*Controller
}

// NewManager creates a Manager. The options are applied to every controller
// it creates.
func NewManager(selector MoveSelector, opts ...Option) *Manager {
	return &Manager{
		selector: selector,
		opts:     opts,
		now:      time.Now,
		metrics:  instruments(),
		sessions: make(map[string]*Controller),
	}
}

// Create registers a new controller in the setup state.
func (m *Manager) Create(cfg Config) *Controller {
	id := uuid.NewString()
	opts := append([]Option{WithClock(func() time.Time { return m.now() })}, m.opts...)
	c := NewController(id, cfg, m.selector, opts...)

	m.mu.Lock()
	m.sessions[id] = c
	m.mu.Unlock()

	m.metrics.sessions(context.Background(), 1)
	return c
}

func (m *Manager) Get(id string) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	c, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return c, nil
}

// Delete drops a session. It reports whether the session existed.
func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		m.metrics.sessions(context.Background(), -1)
	}
	return ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep drops every session untouched for longer than idle and returns how
// many were removed.
func (m *Manager) Sweep(idle time.Duration) int {
	cutoff := m.now().Add(-idle)

	m.mu.Lock()
	removed := 0
	for id, c := range m.sessions {
		if c.LastActive().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	m.mu.Unlock()

	if removed > 0 {
		m.metrics.sessions(context.Background(), -int64(removed))
	}
	return removed
}

// Run sweeps idle sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "session sweeper stopping")
			return
		case <-ticker.C:
			if n := m.Sweep(idle); n > 0 {
				slog.InfoContext(ctx, "evicted idle sessions", "count", n, "remaining", m.Len())
			}
		}
	}
}
