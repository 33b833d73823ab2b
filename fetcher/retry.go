package fetcher

import "time"

// RetryPolicy defines the per-item retry behavior. The policy is injected
// into the client so that mechanism (the lookup loop) stays separate from
// policy (how often to try again).
type RetryPolicy struct {
	MaxAttempts int           // attempts per item, including the first
	Backoff     time.Duration // fixed wait between attempts
}

// DefaultRetryPolicy matches the documented defaults: a single attempt
// with no retry, and a one second backoff when retries are enabled.
var DefaultRetryPolicy = RetryPolicy{
	MaxAttempts: 1,
	Backoff:     1 * time.Second,
}

// normalized clamps nonsensical values back to the defaults.
func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultRetryPolicy.MaxAttempts
	}
	if p.Backoff <= 0 {
		p.Backoff = DefaultRetryPolicy.Backoff
	}
	return p
}
