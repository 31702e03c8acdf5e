// Package embedding holds helpers shared by the remote embedding adapters.
package embedding

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultRetryAfter is the backoff applied when a 429 carries no Retry-After header.
const DefaultRetryAfter = 10 * time.Second

// RateLimiter throttles requests to an embedding API.
// A nil *RateLimiter never blocks.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
}

// NewRateLimiter returns a limiter allowing requestsPerSecond with the given burst.
// It returns nil when requestsPerSecond is not positive.
func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if requestsPerSecond <= 0 {
		return nil
	}
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
	}
}

// Wait blocks until a request may be sent, honouring any backoff from a 429.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if r == nil {
		return nil
	}

	r.mu.Lock()
	retryAt := r.retryAt
	r.mu.Unlock()

	if wait := time.Until(retryAt); wait > 0 {
		timer := time.NewTimer(wait)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}

	return r.limiter.Wait(ctx)
}

// Observe records a backoff when resp is a 429 response.
func (r *RateLimiter) Observe(resp *http.Response) {
	if r == nil || resp == nil || resp.StatusCode != http.StatusTooManyRequests {
		return
	}

	backoff := DefaultRetryAfter
	if secs, err := strconv.Atoi(resp.Header.Get("Retry-After")); err == nil && secs > 0 {
		backoff = time.Duration(secs) * time.Second
	}

	r.mu.Lock()
	r.retryAt = time.Now().Add(backoff)
	r.mu.Unlock()
}

// Transport wraps base so every response passes through Observe. It lets
// clients that hide the *http.Response still feed 429 backoff to r.
func (r *RateLimiter) Transport(base http.RoundTripper) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &observingTransport{base: base, limiter: r}
}

type observingTransport struct {
	base    http.RoundTripper
	limiter *RateLimiter
}

func (t *observingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err == nil {
		t.limiter.Observe(resp)
	}
	return resp, err
}
