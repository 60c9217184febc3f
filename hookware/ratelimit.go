package hookware

import (
	"net/http"
	"sync"
	"time"

	"github.com/ninepath/strada/dispatch"
)

// RateLimitConfig configures the rate limit hook behaviour.
type RateLimitConfig struct {
	// Capacity is the bucket size: the number of requests a key may
	// burst. Defaults to 10 when zero.
	Capacity float64

	// RefillRate is the sustained rate in requests per second.
	// Defaults to 1 when zero.
	RefillRate float64

	// KeyFunc derives the bucket key from the frame. Defaults to the
	// client address seeded by the transport adapter; frames without one
	// share a single bucket.
	KeyFunc func(frame *dispatch.Frame) string
}

// tokenBucket is a classic token bucket: tokens accrue at refillRate up
// to capacity, one token per request.
type tokenBucket struct {
	tokens     float64
	lastRefill time.Time
}

type rateLimit struct {
	capacity   float64
	refillRate float64
	keyFunc    func(frame *dispatch.Frame) string
	now        func() time.Time

	mu      sync.Mutex
	buckets map[string]*tokenBucket
}

// RateLimit returns a hook that enforces a per-key token bucket. When a
// key's bucket is empty the chain halts with a 429 response.
func RateLimit(cfg RateLimitConfig) dispatch.Middleware {
	capacity := cfg.Capacity
	if capacity <= 0 {
		capacity = 10
	}

	refillRate := cfg.RefillRate
	if refillRate <= 0 {
		refillRate = 1
	}

	keyFunc := cfg.KeyFunc
	if keyFunc == nil {
		keyFunc = remoteAddrOf
	}

	return &rateLimit{
		capacity:   capacity,
		refillRate: refillRate,
		keyFunc:    keyFunc,
		now:        time.Now,
		buckets:    make(map[string]*tokenBucket),
	}
}

// RateLimitHook adapts RateLimit to a named-hook constructor.
func RateLimitHook(cfg RateLimitConfig) dispatch.MiddlewareCtor {
	return func(_ map[string]any) (dispatch.Middleware, error) {
		return RateLimit(cfg), nil
	}
}

// Handle implements dispatch.Middleware.
func (rl *rateLimit) Handle(data any) (any, dispatch.Flow, error) {
	frame := frameOf(data)
	if frame == nil {
		return data, dispatch.FlowContinue, nil
	}

	if !rl.allow(rl.keyFunc(frame)) {
		frame.Response = &dispatch.Response{
			Status: http.StatusTooManyRequests,
			Body:   http.StatusText(http.StatusTooManyRequests),
		}
		return frame, dispatch.FlowHalt, nil
	}

	return frame, dispatch.FlowContinue, nil
}

func (rl *rateLimit) allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &tokenBucket{tokens: rl.capacity, lastRefill: rl.now()}
		rl.buckets[key] = b
	}

	now := rl.now()
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(rl.capacity, b.tokens+elapsed*rl.refillRate)
	b.lastRefill = now

	if b.tokens >= 1 {
		b.tokens--
		return true
	}

	return false
}
