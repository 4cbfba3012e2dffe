// Package retry wraps remote calls in the fixed-interval bounded retry policy
// used by every network-facing component. Deliberately simple: constant wait,
// hard attempt cap, no jitter.
package retry

import (
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Policy describes one retry schedule. The zero value is not usable; use
// Default or construct explicitly (tests inject Interval: 0).
type Policy struct {
	MaxAttempts int
	Interval    time.Duration
}

// Default matches the general remote-call schedule: three attempts, two
// seconds between them.
var Default = Policy{MaxAttempts: 3, Interval: 2 * time.Second}

func (p Policy) backOff() backoff.BackOff {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	return backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Interval), uint64(attempts-1))
}

// Permanent marks err as a terminal outcome (e.g. not-found) that must not be
// retried. Do returns the original err, so errors.Is still matches.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs op under the policy. Outcomes are tri-state: the success value, a
// permanent error returned as-is, or the last transient error once attempts
// are exhausted.
func Do[T any](p Policy, op func() (T, error)) (T, error) {
	var out T
	err := backoff.Retry(func() error {
		v, err := op()
		if err != nil {
			return err
		}
		out = v
		return nil
	}, p.backOff())
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
