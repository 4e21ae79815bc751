package handler

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// legalCacheControl applies to the published legal documents, which change
// only with a deploy. Every other response carries applicant data, admin
// state or live prices and is never stored.
const legalCacheControl = "public, max-age=3600"

// SecurityHeaders adds the response hardening headers and the cache policy
// of the route.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		h.Set("X-XSS-Protection", "0")
		h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
		h.Set("Content-Security-Policy", "default-src 'self'; script-src 'self'; frame-ancestors 'none'")
		h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		h.Set("Cache-Control", cachePolicy(r))
		next.ServeHTTP(w, r)
	})
}

func cachePolicy(r *http.Request) string {
	if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, "/api/legal/") {
		return legalCacheControl
	}
	return "no-store"
}

// RateLimiter caps attempts per client address inside a sliding window. It
// guards the admin login. A limit of zero or less disables it.
type RateLimiter struct {
	limit          int
	window         time.Duration
	trustedProxies int
	now            func() time.Time

	mu        sync.Mutex
	attempts  map[string][]time.Time
	lastSweep time.Time
}

// NewRateLimiter allows limit attempts per window and client. One reverse
// proxy in front of the server is trusted for X-Forwarded-For.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		limit:          limit,
		window:         window,
		trustedProxies: 1,
		now:            time.Now,
		attempts:       make(map[string][]time.Time),
	}
}

// Middleware rejects requests over the limit with 429 rate_limited and a
// Retry-After header.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	if rl.limit <= 0 {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		client := rl.clientIP(r)
		ok, wait := rl.allow(client)
		if !ok {
			slog.WarnContext(r.Context(), "rate limit exceeded",
				"client_ip", client, "path", r.URL.Path, "retry_after", wait)
			w.Header().Set("Retry-After", retryAfterSeconds(wait))
			writeError(w, http.StatusTooManyRequests, "rate_limited")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow records an attempt by client. When the window is full it reports
// how long until the oldest attempt leaves it.
func (rl *RateLimiter) allow(client string) (bool, time.Duration) {
	now := rl.now()
	since := now.Add(-rl.window)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Stale clients are dropped once per window instead of by a ticker.
	if now.Sub(rl.lastSweep) >= rl.window {
		for c, ts := range rl.attempts {
			if kept := after(ts, since); len(kept) > 0 {
				rl.attempts[c] = kept
			} else {
				delete(rl.attempts, c)
			}
		}
		rl.lastSweep = now
	}

	ts := after(rl.attempts[client], since)
	if len(ts) >= rl.limit {
		rl.attempts[client] = ts
		return false, ts[0].Add(rl.window).Sub(now)
	}
	rl.attempts[client] = append(ts, now)
	return true, 0
}

// after filters ts in place, keeping the instants later than since.
func after(ts []time.Time, since time.Time) []time.Time {
	kept := ts[:0]
	for _, t := range ts {
		if t.After(since) {
			kept = append(kept, t)
		}
	}
	return kept
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}

// clientIP reads the entry our proxy appended to X-Forwarded-For; entries
// to its left are client supplied and ignored.
func (rl *RateLimiter) clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" && rl.trustedProxies > 0 {
		parts := strings.Split(xff, ",")
		if idx := len(parts) - rl.trustedProxies; idx >= 0 {
			return strings.TrimSpace(parts[idx])
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
