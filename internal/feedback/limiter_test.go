package feedback

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestWindow(max int, window time.Duration) (*FixedWindow, *time.Time) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	l := NewFixedWindow(max, window)
	l.now = func() time.Time { return clock }
	return l, &clock
}

func TestFixedWindowAllowsUpToMax(t *testing.T) {
	l, _ := newTestWindow(3, time.Minute)

	for i := 0; i < 3; i++ {
		ok, _ := l.Allow("1.2.3.4")
		require.True(t, ok, "request %d should pass", i+1)
	}

	ok, retryAfter := l.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, retryAfter)
}

func TestFixedWindowKeysAreIndependent(t *testing.T) {
	l, _ := newTestWindow(1, time.Minute)

	ok, _ := l.Allow("1.2.3.4")
	require.True(t, ok)
	ok, _ = l.Allow("1.2.3.4")
	require.False(t, ok)

	ok, _ = l.Allow("5.6.7.8")
	assert.True(t, ok, "a different client gets its own window")
}

func TestFixedWindowResets(t *testing.T) {
	l, clock := newTestWindow(1, time.Minute)

	ok, _ := l.Allow("1.2.3.4")
	require.True(t, ok)
	ok, retryAfter := l.Allow("1.2.3.4")
	require.False(t, ok)
	require.Equal(t, time.Minute, retryAfter)

	*clock = clock.Add(time.Minute)

	ok, _ = l.Allow("1.2.3.4")
	assert.True(t, ok, "the window expired")
}

func TestFixedWindowRetryAfterShrinks(t *testing.T) {
	l, clock := newTestWindow(1, time.Minute)

	_, _ = l.Allow("1.2.3.4")

	*clock = clock.Add(40 * time.Second)
	ok, retryAfter := l.Allow("1.2.3.4")
	assert.False(t, ok)
	assert.Equal(t, 20*time.Second, retryAfter)
}
