package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/time/rate"

	h "enrolinvitation/internal/delivery/http/helpers"
)

const (
	rateLimitClients = 10000
	rateLimitIdle    = 10 * time.Minute
)

// ClientRateLimiter hands out one token bucket per client address.
// Buckets idle for longer than rateLimitIdle are evicted.
type ClientRateLimiter struct {
	mu       sync.Mutex
	limiters *expirable.LRU[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

// NewClientRateLimiter allows rps requests per second per client with the given burst.
func NewClientRateLimiter(rps float64, burst int) *ClientRateLimiter {
	return &ClientRateLimiter{
		limiters: expirable.NewLRU[string, *rate.Limiter](rateLimitClients, nil, rateLimitIdle),
		limit:    rate.Limit(rps),
		burst:    burst,
	}
}

// Allow reports whether a request from key may proceed now.
func (l *ClientRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	limiter, ok := l.limiters.Get(key)
	if !ok {
		limiter = rate.NewLimiter(l.limit, l.burst)
	}
	// re-adding refreshes the idle timer
	l.limiters.Add(key, limiter)
	l.mu.Unlock()
	return limiter.Allow()
}

// RateLimit returns a wrapper that responds with 429 once the client exceeds its budget.
func RateLimit(limiter *ClientRateLimiter) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if !limiter.Allow(clientKey(r)) {
				w.Header().Set("Retry-After", "1")
				h.WriteJSONError(w, http.StatusTooManyRequests, h.ErrCodeTooManyRequests, "too many requests")
				return
			}
			next(w, r)
		}
	}
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
