package middleware

import (
	"net/http"
	"sync"
	"time"

	"pharmapos/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Per-IP fixed-window rate limiting. Two instances exist: a tight one on the
// login route to slow credential stuffing, and a loose one over the whole
// API. Entries for IPs that stop sending are purged in the background so the
// maps do not grow without bound.

type rateWindow struct {
	mu    sync.Mutex
	count int
	reset time.Time
}

// allow counts one request and reports whether it fits in the window,
// returning the time the window resets.
func (w *rateWindow) allow(limit int, window time.Duration, now time.Time) (bool, time.Time) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if now.After(w.reset) {
		w.count = 0
		w.reset = now.Add(window)
	}
	w.count++
	return w.count <= limit, w.reset
}

type ipLimiter struct {
	name   string
	limit  int
	window time.Duration

	mu      sync.Mutex
	clients map[string]*rateWindow
}

func newIPLimiter(name string, limit int, window time.Duration) *ipLimiter {
	l := &ipLimiter{
		name:    name,
		limit:   limit,
		window:  window,
		clients: make(map[string]*rateWindow),
	}
	go l.purgeLoop()
	return l
}

func (l *ipLimiter) clientWindow(ip string) *rateWindow {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.clients[ip]
	if !ok {
		w = &rateWindow{}
		l.clients[ip] = w
	}
	return w
}

func (l *ipLimiter) handler(rejectMsg string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, reset := l.clientWindow(c.ClientIP()).allow(l.limit, l.window, time.Now())
		if !ok {
			c.Header("Retry-After", reset.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(rejectMsg))
			return
		}
		c.Next()
	}
}

// purgeLoop drops windows that have been idle past their reset time.
func (l *ipLimiter) purgeLoop() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		purged := 0

		l.mu.Lock()
		for ip, w := range l.clients {
			w.mu.Lock()
			stale := now.After(w.reset)
			w.mu.Unlock()
			if stale {
				delete(l.clients, ip)
				purged++
			}
		}
		remaining := len(l.clients)
		l.mu.Unlock()

		if purged > 0 {
			log.Debug().
				Str("limiter", l.name).
				Int("purged", purged).
				Int("remaining", remaining).
				Msg("rate limiter purge")
		}
	}
}

// LoginRateLimiter caps login attempts at 20 per minute per IP.
func LoginRateLimiter() gin.HandlerFunc {
	l := newIPLimiter("login", 20, time.Minute)
	return l.handler("Too many login attempts. Try again in a minute.")
}

// RateLimiter caps requests per IP across the API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	l := newIPLimiter("api", limit, window)
	return l.handler("Too many requests. Try again shortly.")
}
