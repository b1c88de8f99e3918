package quota

import (
	"sync"
	"time"
)

// BurstLimiter is a sliding-window per-token limiter that sits in
// front of the daily quota, so a misbehaving client cannot hammer the
// database with quota lookups.
type BurstLimiter struct {
	mu       sync.Mutex
	requests map[string][]time.Time
	limit    int
	window   time.Duration
}

func NewBurstLimiter(perMinute int) *BurstLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}

	l := &BurstLimiter{
		requests: make(map[string][]time.Time),
		limit:    perMinute,
		window:   time.Minute,
	}
	go l.cleanup()
	return l
}

func (l *BurstLimiter) Allow(token string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	cutoff := now.Add(-l.window)

	old := l.requests[token]
	fresh := old[:0] // reuse underlying array
	for _, t := range old {
		if t.After(cutoff) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= l.limit {
		l.requests[token] = fresh
		return false
	}

	l.requests[token] = append(fresh, now)
	return true
}

func (l *BurstLimiter) Remaining(token string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := time.Now().Add(-l.window)
	cnt := 0
	for _, t := range l.requests[token] {
		if t.After(cutoff) {
			cnt++
		}
	}

	if rem := l.limit - cnt; rem > 0 {
		return rem
	}
	return 0
}

func (l *BurstLimiter) cleanup() {
	tick := time.NewTicker(5 * time.Minute)
	for range tick.C {
		l.mu.Lock()
		cutoff := time.Now().Add(-l.window)

		for token, ts := range l.requests {
			var fresh []time.Time
			for _, t := range ts {
				if t.After(cutoff) {
					fresh = append(fresh, t)
				}
			}
			if len(fresh) == 0 {
				delete(l.requests, token)
			} else {
				l.requests[token] = fresh
			}
		}
		l.mu.Unlock()
	}
}
