package middleware

import (
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimitConfig holds per-client rate limiting configuration.
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerSecond is the sustained rate allowed per client.
	RequestsPerSecond float64
	// Burst is the maximum burst size per client.
	Burst int
	// MaxClients bounds the number of tracked clients; the least
	// recently seen one is evicted when the table is full.
	MaxClients int
}

const defaultMaxClients = 1024

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiters keeps one token bucket per client address.
type clientLimiters struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rps     rate.Limit
	burst   int
	max     int
	now     func() time.Time
}

func newClientLimiters(cfg RateLimitConfig) *clientLimiters {
	max := cfg.MaxClients
	if max <= 0 {
		max = defaultMaxClients
	}
	return &clientLimiters{
		clients: make(map[string]*clientLimiter),
		rps:     rate.Limit(cfg.RequestsPerSecond),
		burst:   cfg.Burst,
		max:     max,
		now:     time.Now,
	}
}

func (l *clientLimiters) get(client string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if c, ok := l.clients[client]; ok {
		c.lastSeen = now
		return c.limiter
	}

	if len(l.clients) >= l.max {
		l.evictOldest()
	}
	c := &clientLimiter{limiter: rate.NewLimiter(l.rps, l.burst), lastSeen: now}
	l.clients[client] = c
	return c.limiter
}

func (l *clientLimiters) evictOldest() {
	var oldestKey string
	var oldest time.Time
	for key, c := range l.clients {
		if oldestKey == "" || c.lastSeen.Before(oldest) {
			oldestKey, oldest = key, c.lastSeen
		}
	}
	delete(l.clients, oldestKey)
}

func (l *clientLimiters) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// RateLimit limits requests per client address with a token bucket.
// Rejected requests get 429 and a Retry-After hint.
func RateLimit(cfg RateLimitConfig) Middleware {
	if !cfg.Enabled {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	limiters := newClientLimiters(cfg)
	retryAfter := "1"
	if cfg.RequestsPerSecond > 0 {
		retryAfter = strconv.Itoa(int(math.Ceil(1 / cfg.RequestsPerSecond)))
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.get(clientAddr(r)).Allow() {
				w.Header().Set("Retry-After", retryAfter)
				http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr is the host part of the peer address. Forwarding headers
// are ignored: the exporter is meant to be scraped directly.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
