// Package ratelimit implements fixed-window request counting per client.
package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Window is the state of one client's current counting window.
type Window struct {
	Count   int
	ResetAt time.Time
}

// Store keeps counters. Implementations must increment atomically and start
// a fresh window (count 1) when none exists or the previous one has expired.
// A shared store such as Redis can be plugged in for multi-instance
// deployments; MemoryStore serves a single process.
type Store interface {
	Increment(ctx context.Context, key string, window time.Duration, now time.Time) (Window, error)
	Get(ctx context.Context, key string, now time.Time) (Window, bool, error)
}

// Decision is the outcome of one counted request.
type Decision struct {
	Limited   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter allows at most Max requests per Window for each client id.
type Limiter struct {
	name   string
	store  Store
	window time.Duration
	max    int
	now    func() time.Time
}

// Option customises a Limiter.
type Option func(*Limiter)

// WithClock overrides the limiter's time source.
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter. The name namespaces its keys so limiters sharing
// a store keep separate counters.
func New(name string, store Store, window time.Duration, max int, opts ...Option) *Limiter {
	l := &Limiter{
		name:   name,
		store:  store,
		window: window,
		max:    max,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Limiter) key(id string) string {
	return fmt.Sprintf("ratelimit:%s:%s", l.name, id)
}

// Name identifies the limiter tier.
func (l *Limiter) Name() string { return l.name }

// Max is the number of requests allowed per window.
func (l *Limiter) Max() int { return l.max }

// Allow counts one request for id.
func (l *Limiter) Allow(ctx context.Context, id string) (Decision, error) {
	w, err := l.store.Increment(ctx, l.key(id), l.window, l.now())
	if err != nil {
		return Decision{Limit: l.max, Remaining: l.max}, err
	}
	remaining := l.max - w.Count
	if remaining < 0 {
		remaining = 0
	}
	return Decision{
		Limited:   w.Count > l.max,
		Limit:     l.max,
		Remaining: remaining,
		ResetAt:   w.ResetAt,
	}, nil
}

// IsLimited counts one request for id and reports whether it exceeds the
// limit. Store failures fail open.
func (l *Limiter) IsLimited(id string) bool {
	d, err := l.Allow(context.Background(), id)
	if err != nil {
		return false
	}
	return d.Limited
}

// Remaining reports how many requests id may still make in its window
// without counting one.
func (l *Limiter) Remaining(ctx context.Context, id string) (int, error) {
	w, ok, err := l.store.Get(ctx, l.key(id), l.now())
	if err != nil {
		return 0, err
	}
	if !ok {
		return l.max, nil
	}
	if w.Count >= l.max {
		return 0, nil
	}
	return l.max - w.Count, nil
}

// ResetTime is when id's current window ends; without a window, one full
// window from now.
func (l *Limiter) ResetTime(ctx context.Context, id string) (time.Time, error) {
	now := l.now()
	w, ok, err := l.store.Get(ctx, l.key(id), now)
	if err != nil {
		return time.Time{}, err
	}
	if !ok {
		return now.Add(l.window), nil
	}
	return w.ResetAt, nil
}
