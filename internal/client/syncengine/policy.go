package syncengine

import (
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"
)

// Policy decides what a failed reconciliation means for the identity.
type Policy string

const (
	// PolicyGiveUp marks the attempt done even when it failed; the local
	// collection stays on screen until the identity changes or the user
	// forces a resync.
	PolicyGiveUp Policy = "give-up"
	// PolicyBackoff leaves the attempt failed; later triggers retry once an
	// exponentially growing delay has passed.
	PolicyBackoff Policy = "backoff"
)

const (
	DefaultBackoffBase = 5 * time.Second
	DefaultBackoffCap  = 10 * time.Minute
)

func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(s); p {
	case "", PolicyGiveUp:
		return PolicyGiveUp, nil
	case PolicyBackoff:
		return PolicyBackoff, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
	}
}

func newBackoff(base, limit time.Duration, maxRetries uint64) retry.Backoff {
	if base <= 0 {
		base = DefaultBackoffBase
	}
	if limit <= 0 {
		limit = DefaultBackoffCap
	}
	b := retry.WithCappedDuration(limit, retry.NewExponential(base))
	if maxRetries > 0 {
		b = retry.WithMaxRetries(maxRetries, b)
	}
	return b
}
