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

// maxTrackedClients bounds the limiter table between sweeps.
const maxTrackedClients = 10000

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	every     rate.Limit
	burst     int
	idle      time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func newRateLimiter(limit int, per time.Duration, now func() time.Time) *rateLimiter {
	return &rateLimiter{
		clients:   make(map[string]*clientLimiter),
		every:     rate.Every(per / time.Duration(max(limit, 1))),
		burst:     limit,
		idle:      per,
		lastSweep: now(),
		now:       now,
	}
}

// reserve takes a token for ip. A client idle for a full window has a full
// bucket again, so its entry can be dropped without changing any outcome.
func (rl *rateLimiter) reserve(ip string) *rate.Reservation {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idle || len(rl.clients) >= maxTrackedClients {
		rl.sweep(now)
	}

	c, ok := rl.clients[ip]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(rl.every, rl.burst)}
		rl.clients[ip] = c
	}
	c.lastSeen = now
	return c.limiter.ReserveN(now, 1)
}

func (rl *rateLimiter) sweep(now time.Time) {
	for ip, c := range rl.clients {
		if now.Sub(c.lastSeen) >= rl.idle {
			delete(rl.clients, ip)
		}
	}
	if len(rl.clients) >= maxTrackedClients {
		rl.clients = make(map[string]*clientLimiter)
	}
	rl.lastSweep = now
}

func (rl *rateLimiter) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *rateLimiter) handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		res := rl.reserve(clientIP(r))
		if delay := res.DelayFrom(rl.now()); !res.OK() || delay > 0 {
			res.CancelAt(rl.now())
			if res.OK() {
				w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(delay.Seconds()))))
			}
			writeError(w, http.StatusTooManyRequests, "Too many requests")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RateLimit allows each client IP `limit` requests per `per`, with a burst of
// the same size. Requests over the limit get 429 with a Retry-After hint.
// Clients are keyed by RemoteAddr, which is only rewritten from forwarding
// headers when the router trusts its proxy.
func RateLimit(limit int, per time.Duration) func(http.Handler) http.Handler {
	return newRateLimiter(limit, per, time.Now).handler
}

// clientIP returns the host part of RemoteAddr, or RemoteAddr itself when it
// carries no port.
func clientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
