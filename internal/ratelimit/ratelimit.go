// Package ratelimit paces outgoing requests with a token bucket.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter implements a token bucket rate limiter.
type Limiter struct {
	tokens     float64
	capacity   float64
	rate       float64 // tokens added per second
	lastRefill time.Time
	mu         sync.Mutex
}

// New creates a Limiter that refills at rate tokens per second up to capacity.
func New(rate float64, capacity float64) *Limiter {
	return &Limiter{
		tokens:     capacity,
		capacity:   capacity,
		rate:       rate,
		lastRefill: time.Now(),
	}
}

// Every creates a Limiter that admits one request per interval with no burst.
func Every(interval time.Duration) *Limiter {
	return New(1/interval.Seconds(), 1)
}

// Allow reports whether a request may proceed now, consuming a token if so.
func (l *Limiter) Allow() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.refill()

	if l.tokens >= 1 {
		l.tokens--
		return true
	}

	return false
}

// Wait blocks until a token is available, then consumes it.
func (l *Limiter) Wait() {
	for {
		l.mu.Lock()
		l.refill()

		if l.tokens >= 1 {
			l.tokens--
			l.mu.Unlock()
			return
		}

		// Sleep outside the lock for however long the deficit takes to refill.
		wait := time.Duration((1 - l.tokens) / l.rate * float64(time.Second))
		l.mu.Unlock()

		time.Sleep(wait)
	}
}

// refill adds tokens for the time elapsed since the last refill.
// Callers must hold l.mu.
func (l *Limiter) refill() {
	now := time.Now()
	elapsed := now.Sub(l.lastRefill).Seconds()

	l.tokens += elapsed * l.rate
	if l.tokens > l.capacity {
		l.tokens = l.capacity
	}

	l.lastRefill = now
}
