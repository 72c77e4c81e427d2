package feedback

import (
	"context"
	"sync"
	"time"
)

// Limiter gates feedback submissions per client key (IP). Injected so a
// multi-instance deployment can swap in a shared store.
type Limiter interface {
	// Allow reports whether the key may proceed; when it may not, the
	// returned duration says how long until the window resets.
	Allow(key string) (bool, time.Duration)
}

type windowEntry struct {
	count   int
	resetAt time.Time
}

// FixedWindow is an in-memory fixed-window counter: at most Max requests
// per key per Window.
type FixedWindow struct {
	Max    int
	Window time.Duration

	mu      sync.Mutex
	entries map[string]*windowEntry
	now     func() time.Time
}

func NewFixedWindow(max int, window time.Duration) *FixedWindow {
	return &FixedWindow{
		Max:     max,
		Window:  window,
		entries: map[string]*windowEntry{},
		now:     time.Now,
	}
}

func (l *FixedWindow) Allow(key string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e := l.entries[key]
	if e == nil || !e.resetAt.After(now) {
		e = &windowEntry{resetAt: now.Add(l.Window)}
		l.entries[key] = e
	}

	if e.count >= l.Max {
		return false, e.resetAt.Sub(now)
	}
	e.count++
	return true, 0
}

// Sweep drops expired entries every interval until ctx is done. Run it in
// its own goroutine.
func (l *FixedWindow) Sweep(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.mu.Lock()
			now := l.now()
			for key, e := range l.entries {
				if !e.resetAt.After(now) {
					delete(l.entries, key)
				}
			}
			l.mu.Unlock()
		}
	}
}
