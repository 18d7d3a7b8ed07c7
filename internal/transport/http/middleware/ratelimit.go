package middleware

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Limiter reports whether one more call for key fits its budget.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter is an in-process per-key token bucket with stale-entry cleanup.
// It refills limit tokens per window, so a burst of limit calls is allowed.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*ipLimiter
	r        rate.Limit
	burst    int
	ttl      time.Duration
}

// NewRateLimiter allows limit calls per window for each key. The cleanup
// goroutine stops when ctx is done.
func NewRateLimiter(ctx context.Context, limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		limiters: make(map[string]*ipLimiter),
		r:        rate.Limit(float64(limit) / window.Seconds()),
		burst:    limit,
		ttl:      window,
	}
	go rl.cleanup(ctx)
	return rl
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if v, ok := rl.limiters[key]; ok {
		v.lastSeen = time.Now()
		return v.limiter
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.limiters[key] = &ipLimiter{limiter: l, lastSeen: time.Now()}
	return l
}

func (rl *RateLimiter) Allow(_ context.Context, key string) (bool, error) {
	return rl.get(key).Allow(), nil
}

// cleanup drops keys idle for longer than a full window; their bucket is
// full again by then.
func (rl *RateLimiter) cleanup(ctx context.Context) {
	t := time.NewTicker(5 * time.Minute)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
		}
		rl.mu.Lock()
		for k, v := range rl.limiters {
			if time.Since(v.lastSeen) > rl.ttl {
				delete(rl.limiters, k)
			}
		}
		rl.mu.Unlock()
	}
}

type windowStore interface {
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// fixedWindowScript counts a call and arms the window expiry in one atomic
// step. A counter left without a TTL is re-armed on its next call.
const fixedWindowScript = `
local n = redis.call("INCR", KEYS[1])
if redis.call("PTTL", KEYS[1]) < 0 then
	redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`

// RedisWindow is a fixed-window counter shared by every API instance.
type RedisWindow struct {
	rdb    windowStore
	limit  int64
	window time.Duration
}

func NewRedisWindow(rdb *redis.Client, limit int, window time.Duration) *RedisWindow {
	return &RedisWindow{rdb: rdb, limit: int64(limit), window: window}
}

func (w *RedisWindow) Allow(ctx context.Context, key string) (bool, error) {
	n, err := w.rdb.Eval(ctx, fixedWindowScript, []string{"ratelimit:" + key}, w.window.Milliseconds()).Int64()
	if err != nil {
		return false, err
	}
	return n <= w.limit, nil
}

// Limit enforces l per route and peer IP. Forwarding headers are not read
// here; behind a trusted proxy the router rewrites RemoteAddr first.
// Limiter failures let the call through.
func Limit(l Limiter, log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := l.Allow(r.Context(), r.URL.Path+"|"+peerIP(r))
			if err != nil {
				log.Warn("rate limiter unavailable", zap.Error(err))
				ok = true
			}
			if !ok {
				writeJSONError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// peerIP is the host part of RemoteAddr.
func peerIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
