package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Per-client token buckets, keyed by IP. Buckets refill at 5 req/s with a
// burst of 30, which comfortably covers a dashboard load plus a few mutations.
type clientBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	clientBuckets   = make(map[string]*clientBucket)
	clientBucketsMu sync.Mutex
)

// RateLimitMiddleware throttles requests per client IP, preferring the
// X-Forwarded-For header set by the load balancer over the socket address.
func RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.Header.Get("X-Forwarded-For")
		if ip == "" {
			ip, _, _ = net.SplitHostPort(r.RemoteAddr)
		}

		if !bucketFor(ip).Allow() {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func bucketFor(ip string) *rate.Limiter {
	clientBucketsMu.Lock()
	defer clientBucketsMu.Unlock()

	b, ok := clientBuckets[ip]
	if !ok {
		b = &clientBucket{limiter: rate.NewLimiter(5, 30)}
		clientBuckets[ip] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

// CleanupVisitors drops buckets for clients idle longer than three minutes.
// Run it in its own goroutine at startup.
func CleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		clientBucketsMu.Lock()
		for ip, b := range clientBuckets {
			if time.Since(b.lastSeen) > 3*time.Minute {
				delete(clientBuckets, ip)
			}
		}
		clientBucketsMu.Unlock()
	}
}
