package middleware

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"

	"touristkiosk/internal/logger"
)

type rateLimiter struct {
	bucket    map[string]*rate.Limiter
	rate      rate.Limit
	burstSize int
	mutex     sync.Mutex
}

func newRateLimiter(reqRate rate.Limit, burstSize int) *rateLimiter {
	return &rateLimiter{
		bucket:    make(map[string]*rate.Limiter),
		rate:      reqRate,
		burstSize: burstSize,
	}
}

func (r *rateLimiter) limiterFor(ip string) *rate.Limiter {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exist := r.bucket[ip]; !exist {
		r.bucket[ip] = rate.NewLimiter(r.rate, r.burstSize)
	}

	return r.bucket[ip]
}

// RateLimit allows each client IP reqPerSecond requests with the given burst.
// Clients over the limit get 429.
func RateLimit(reqPerSecond float64, burst int, logger *logger.Logger) func(http.Handler) http.Handler {
	if burst < 1 {
		burst = 1
	}
	limiter := newRateLimiter(rate.Limit(reqPerSecond), burst)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiter.limiterFor(ip).Allow() {
				logger.Warning("Too many requests for IP %s", ip)
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP strips the port from RemoteAddr. chi's RealIP middleware has
// already applied X-Forwarded-For when present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
