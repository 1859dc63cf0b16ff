package server

import (
	"log"
	"net"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"golang.org/x/time/rate"
)

// visitorIdleTTL is how long an idle client's limiter is kept.
const visitorIdleTTL = 10 * time.Minute

var (
	limit = rate.Limit(envFloat("RATE_LIMIT_RPS", 5))
	burst = int(envFloat("RATE_LIMIT_BURST", 10))
)

func envFloat(key string, def float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Printf("Invalid %s %q, using %v", key, v, def)
		return def
	}
	return f
}

// rateLimiter keeps one token bucket per client IP. Buckets idle for longer than the
// TTL are evicted.
type rateLimiter struct {
	visitors *ttlcache.Cache[string, *rate.Limiter]
	limit    rate.Limit
	burst    int
}

func newRateLimiter(limit rate.Limit, burst int, idle time.Duration) *rateLimiter {
	return &rateLimiter{
		visitors: ttlcache.New(ttlcache.WithTTL[string, *rate.Limiter](idle)),
		limit:    limit,
		burst:    burst,
	}
}

func (l *rateLimiter) visitor(ip string) *rate.Limiter {
	item, _ := l.visitors.GetOrSet(ip, rate.NewLimiter(l.limit, l.burst))
	return item.Value()
}

// Middleware limits each client to the configured request rate. Clients are keyed by the
// socket peer address; forwarding headers are not trusted.
func (l *rateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if !l.visitor(ip).Allow() {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}
