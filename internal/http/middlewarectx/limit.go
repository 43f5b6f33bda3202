package middlewarectx

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"github.com/magabrotheeeer/coleta-calendar/internal/http/response"
)

const limiterIdle = 10 * time.Minute

// RateLimitMiddleware allows rps requests per second per client IP with the
// given burst. Limiters of idle clients expire.
func RateLimitMiddleware(rps float64, burst int, log *slog.Logger) func(http.Handler) http.Handler {
	limiters := gocache.New(limiterIdle, limiterIdle)

	limiterFor := func(ip string) *rate.Limiter {
		if l, ok := limiters.Get(ip); ok {
			limiters.SetDefault(ip, l)
			return l.(*rate.Limiter)
		}
		l := rate.NewLimiter(rate.Limit(rps), burst)
		if err := limiters.Add(ip, l, gocache.DefaultExpiration); err != nil {
			// Another request registered this client first.
			if existing, ok := limiters.Get(ip); ok {
				return existing.(*rate.Limiter)
			}
		}
		return l
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			if !limiterFor(ip).Allow() {
				log.Warn("too many requests",
					slog.String("ip", ip),
					slog.String("request_id", middleware.GetReqID(r.Context())),
				)
				w.Header().Set("Retry-After", "1")
				response.Fail(w, r, http.StatusTooManyRequests, "Demasiados pedidos, tente novamente mais tarde", nil)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// clientIP uses RemoteAddr, which chi's RealIP middleware rewrites from
// proxy headers.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
