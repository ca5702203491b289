package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/petvetapp/petvet-backend/pkg/clientip"
	"golang.org/x/time/rate"
)

// SecurityHeaders sets security-related response headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("X-XSS-Protection", "1; mode=block")
		w.Header().Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		next.ServeHTTP(w, r)
	})
}

// --- In-process per-IP limiting (production only, in front of the Redis limiter) ---

const (
	globalRateLimitRPS    = 5
	globalRateLimitBurst  = 20
	globalCleanupInterval = 5 * time.Minute
	globalLimiterTTL      = 30 * time.Minute
)

type limiterEntry struct {
	limiter *rate.Limiter
	lastUse time.Time
}

var (
	globalEntries    = make(map[string]*limiterEntry)
	globalEntriesMu  sync.Mutex
	globalCleanupRun sync.Once
)

func getGlobalLimiter(ip string) *rate.Limiter {
	globalEntriesMu.Lock()
	defer globalEntriesMu.Unlock()

	globalCleanupRun.Do(func() {
		go func() {
			for range time.Tick(globalCleanupInterval) {
				globalEntriesMu.Lock()
				for ip, entry := range globalEntries {
					if time.Since(entry.lastUse) > globalLimiterTTL {
						delete(globalEntries, ip)
					}
				}
				globalEntriesMu.Unlock()
			}
		}()
	})

	entry, ok := globalEntries[ip]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(globalRateLimitRPS, globalRateLimitBurst)}
		globalEntries[ip] = entry
	}
	entry.lastUse = time.Now()
	return entry.limiter
}

// GlobalRateLimit applies a per-IP token bucket before any handler runs.
func GlobalRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !getGlobalLimiter(clientip.RealClientIP(r)).Allow() {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message":"Too many requests"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ProductionSecurity returns the middleware chain enabled when ENV=production.
func ProductionSecurity() []func(http.Handler) http.Handler {
	return []func(http.Handler) http.Handler{
		SecurityHeaders,
		GlobalRateLimit,
		RateLimitMiddleware,
	}
}
