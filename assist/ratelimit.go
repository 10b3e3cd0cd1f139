package assist

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

// RateLimited wraps a Completer with a token-bucket request limit.
type RateLimited struct {
	next    Completer
	limiter *rate.Limiter
}

// NewRateLimited limits next to requestsPerMin calls per minute, with bursts of
// up to requestsPerMin. A requestsPerMin of 0 or less means unlimited and
// returns next unchanged.
func NewRateLimited(next Completer, requestsPerMin int) Completer {
	if requestsPerMin <= 0 {
		return next
	}
	r := rate.Limit(float64(requestsPerMin) / 60.0)
	return &RateLimited{
		next:    next,
		limiter: rate.NewLimiter(r, requestsPerMin),
	}
}

// Complete blocks until the request is allowed or ctx is done, then delegates.
func (r *RateLimited) Complete(ctx context.Context, req Request) (*Response, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}
	return r.next.Complete(ctx, req)
}
