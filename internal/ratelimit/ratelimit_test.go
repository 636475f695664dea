package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLimiter_Allow(t *testing.T) {
	t.Run("allows requests within the rate limit", func(t *testing.T) {
		l := New(1, 10)

		assert.True(t, l.Allow())
		assert.InDelta(t, 9.0, l.tokens, 0.1)
	})

	t.Run("denies requests when tokens are depleted", func(t *testing.T) {
		l := &Limiter{
			tokens:     0,
			capacity:   10,
			rate:       1,
			lastRefill: time.Now(),
		}

		assert.False(t, l.Allow())
	})

	t.Run("refills tokens over time", func(t *testing.T) {
		l := &Limiter{
			tokens:     0,
			capacity:   10,
			rate:       1,
			lastRefill: time.Now().Add(-2 * time.Second),
		}

		assert.True(t, l.Allow())
		assert.InDelta(t, 1.0, l.tokens, 1.1)
	})

	t.Run("does not exceed capacity", func(t *testing.T) {
		l := &Limiter{
			tokens:     9,
			capacity:   10,
			rate:       1,
			lastRefill: time.Now().Add(-2 * time.Second),
		}

		l.Allow()
		assert.InDelta(t, 9.0, l.tokens, 0.1)
	})
}

func TestLimiter_Wait(t *testing.T) {
	t.Run("first token is immediate", func(t *testing.T) {
		l := Every(time.Second)

		start := time.Now()
		l.Wait()
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})

	t.Run("paces subsequent calls", func(t *testing.T) {
		l := Every(50 * time.Millisecond)
		l.Wait()

		start := time.Now()
		l.Wait()
		assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	})

	t.Run("concurrent waiters each consume a token", func(t *testing.T) {
		l := Every(10 * time.Millisecond)

		start := time.Now()
		wg := sync.WaitGroup{}
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				l.Wait()
			}()
		}
		wg.Wait()

		// One token is free, the other four refill at 10ms each.
		assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
	})
}

func TestEvery(t *testing.T) {
	l := Every(100 * time.Millisecond)

	assert.InDelta(t, 10.0, l.rate, 0.01)
	assert.InDelta(t, 1.0, l.capacity, 0.01)
}
