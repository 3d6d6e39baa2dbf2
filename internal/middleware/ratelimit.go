package middleware

import (
	"strings"
	"sync"
	"time"
)

const (
	RateLimitWindow      = 60 // seconds
	RateLimitMaxRequests = 20
	AntiRepeatWindow     = 15 // seconds per identical target
)

type RateLimitResult struct {
	Allowed     bool
	Reason      string
	WaitSeconds int
}

// RateLimiter throttles analysis requests per client IP, with an
// anti-repeat window so the same URL or phone number is not re-analyzed
// in a tight loop. Handlers call CheckAndRecord after binding the
// request body, once the analysis target is known.
type RateLimiter interface {
	CheckAndRecord(ip, target string) RateLimitResult
}

// clientActivity is one IP's recent request times plus the last time
// each normalized target was analyzed. Targets are tracked in their own
// map so a burst of distinct targets cannot evict repeat detection.
type clientActivity struct {
	stamps   []time.Time
	lastSeen map[string]time.Time
}

func (c *clientActivity) prune(now time.Time) {
	cutoff := now.Add(-RateLimitWindow * time.Second)
	kept := c.stamps[:0]
	for _, ts := range c.stamps {
		if !ts.Before(cutoff) {
			kept = append(kept, ts)
		}
	}
	c.stamps = kept

	repeatCutoff := now.Add(-AntiRepeatWindow * time.Second)
	for target, ts := range c.lastSeen {
		if ts.Before(repeatCutoff) {
			delete(c.lastSeen, target)
		}
	}
}

type InMemoryRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientActivity
}

func NewInMemoryRateLimiter() *InMemoryRateLimiter {
	limiter := &InMemoryRateLimiter{
		clients: make(map[string]*clientActivity),
	}

	go limiter.cleanupLoop()

	return limiter
}

func (l *InMemoryRateLimiter) cleanupLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for ip, client := range l.clients {
			client.prune(now)
			if len(client.stamps) == 0 && len(client.lastSeen) == 0 {
				delete(l.clients, ip)
			}
		}
		l.mu.Unlock()
	}
}

// normalizeTarget collapses trivially distinct spellings of one target
// so "HTTP://Evil.TK/" and "http://evil.tk" share an anti-repeat slot.
func normalizeTarget(target string) string {
	target = strings.ToLower(strings.TrimSpace(target))
	return strings.TrimSuffix(target, "/")
}

func waitUntil(deadline, now time.Time) int {
	wait := int(deadline.Sub(now).Seconds()) + 1
	if wait < 1 {
		wait = 1
	}
	return wait
}

func (l *InMemoryRateLimiter) CheckAndRecord(ip, target string) RateLimitResult {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	client, ok := l.clients[ip]
	if !ok {
		client = &clientActivity{lastSeen: make(map[string]time.Time)}
		l.clients[ip] = client
	}
	client.prune(now)

	if len(client.stamps) >= RateLimitMaxRequests {
		oldest := client.stamps[0]
		return RateLimitResult{
			Allowed:     false,
			Reason:      "rate_limit",
			WaitSeconds: waitUntil(oldest.Add(RateLimitWindow*time.Second), now),
		}
	}

	key := normalizeTarget(target)
	if key != "" {
		if last, seen := client.lastSeen[key]; seen {
			return RateLimitResult{
				Allowed:     false,
				Reason:      "anti_repeat",
				WaitSeconds: waitUntil(last.Add(AntiRepeatWindow*time.Second), now),
			}
		}
		client.lastSeen[key] = now
	}

	client.stamps = append(client.stamps, now)

	return RateLimitResult{
		Allowed: true,
		Reason:  "ok",
	}
}
