package middleware

import (
	"net/http"
	"sync"
	"time"

	"digitask/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts for one client IP within a sliding window.
type rateEntry struct {
	count     int
	windowEnd time.Time
	mu        sync.Mutex
}

// rateTable holds one limiter's per-IP state. Login and general API traffic
// get separate tables so stacking both limiters on a route never touches the
// same entry twice.
type rateTable struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
}

func newRateTable() *rateTable {
	return &rateTable{entries: make(map[string]*rateEntry)}
}

func (t *rateTable) entry(ip string) *rateEntry {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.entries[ip]
	if !ok {
		e = &rateEntry{}
		t.entries[ip] = e
	}
	return e
}

// purge drops entries whose window has elapsed and returns how many went.
func (t *rateTable) purge(now time.Time) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	purged := 0
	for ip, e := range t.entries {
		e.mu.Lock()
		if now.After(e.windowEnd) {
			delete(t.entries, ip)
			purged++
		}
		e.mu.Unlock()
	}
	return purged
}

// limit is the shared sliding-window check. The entry mutex is released
// before the handler chain runs.
func (t *rateTable) limit(limit int, window time.Duration, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		e := t.entry(c.ClientIP())

		e.mu.Lock()
		now := time.Now()
		if now.After(e.windowEnd) {
			e.count = 0
			e.windowEnd = now.Add(window)
		}
		e.count++
		over := e.count > limit
		retryAfter := e.windowEnd
		e.mu.Unlock()

		if over {
			c.Header("Retry-After", retryAfter.Format(time.RFC1123))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New(message))
			return
		}
		c.Next()
	}
}

var (
	loginRates = newRateTable()
	apiRates   = newRateTable()
)

// RateLimiter returns the general-purpose per-IP limiter applied to every
// route.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	return apiRates.limit(limit, window, "Too many requests. Try again shortly.")
}

// LoginRateLimiter limits login attempts to 20 per minute per IP, counted
// independently of general API traffic.
func LoginRateLimiter() gin.HandlerFunc {
	return loginRates.limit(20, time.Minute, "Too many login attempts. Try again in a minute.")
}

const purgeInterval = 5 * time.Minute

func init() {
	go purgeExpiredEntries()
}

// purgeExpiredEntries periodically drops idle IPs from both tables so they
// do not grow without bound.
func purgeExpiredEntries() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		login := loginRates.purge(now)
		api := apiRates.purge(now)
		if login > 0 || api > 0 {
			log.Debug().
				Int("login_entries_purged", login).
				Int("api_entries_purged", api).
				Msg("rate limiter tables purged")
		}
	}
}
