package core

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// WaitConfig defines retry/backoff parameters for polling operations.
//
// Zero values are replaced with defaults by normalize():
//   - Timeout: 10 minutes
//   - Interval: 500ms
//   - MaxInterval: 30 seconds
//   - BackoffFactor: 0.25 (25% increase per iteration)
type WaitConfig struct {
	Timeout       time.Duration // Maximum total wait time
	Interval      time.Duration // Current/initial polling interval (mutated by NextInterval)
	MaxInterval   time.Duration // Cap for exponential backoff
	BackoffFactor float64       // Rate of interval increase (0.25 = 25% per iteration)
}

func (c *WaitConfig) normalize() {
	if c.Timeout == 0 {
		c.Timeout = 10 * time.Minute
	}
	if c.Interval == 0 {
		c.Interval = 500 * time.Millisecond
	}
	if c.MaxInterval == 0 {
		c.MaxInterval = 30 * time.Second
	}
	if c.BackoffFactor == 0 {
		c.BackoffFactor = 0.25
	}
}

// NextInterval returns the current interval and bumps the internal state for
// the next iteration, capping at MaxInterval.
//
// Example progression with Interval=500ms, BackoffFactor=0.25, MaxInterval=30s:
// 500ms, 625ms, 781ms, ... up to 30s.
//
// This method mutates the config's Interval field; do not reuse the same
// config instance for multiple concurrent polling operations.
func (c *WaitConfig) NextInterval() time.Duration {
	current := c.Interval

	next := time.Duration(float64(c.Interval) * (1.0 + c.BackoffFactor))
	if next > c.MaxInterval {
		next = c.MaxInterval
	}
	c.Interval = next

	return current
}

// WaitAPICondition polls a resource until a condition is met or the timeout
// elapses. It repeatedly reads the row identified by searchParams (by "$key"
// when present, otherwise by filter), applies verifyFn to the result, and
// sleeps with exponential backoff between attempts.
//
// verifyFn returns (true, nil) when the condition is satisfied, (false, nil)
// to continue polling, or (false, error) to abort.
//
// On timeout the returned error is a WaitTimeoutError; context cancellation
// surfaces as the context's error.
func WaitAPICondition(
	ctx context.Context,
	caller VergeResourceAPIWithContext,
	searchParams Params,
	waitConfig *WaitConfig,
	verifyFn func(Record) (bool, error),
) (Record, error) {
	if waitConfig == nil {
		waitConfig = &WaitConfig{}
	}
	waitConfig.normalize()

	if ctx == nil {
		ctx = context.Background()
	}
	started := time.Now()
	timeoutCtx, cancel := context.WithTimeout(ctx, waitConfig.Timeout)
	defer cancel()

	for {
		var (
			record Record
			err    error
		)
		if key, ok := searchParams[KeyField]; ok {
			record, err = caller.GetByKeyWithContext(timeoutCtx, key)
		} else {
			record, err = caller.GetWithContext(timeoutCtx, searchParams)
		}
		if err != nil {
			if timeoutCtx.Err() != nil {
				return nil, waitErrFromCtx(ctx, caller, started, waitConfig.Timeout)
			}
			return nil, fmt.Errorf("wait condition API call failed: %w", err)
		}

		completed, err := verifyFn(record)
		if err != nil {
			return nil, fmt.Errorf("wait condition verification failed: %w", err)
		}
		if completed {
			return record, nil
		}

		select {
		case <-timeoutCtx.Done():
			return nil, waitErrFromCtx(ctx, caller, started, waitConfig.Timeout)
		case <-time.After(waitConfig.NextInterval()):
		}
	}
}

func waitErrFromCtx(parent context.Context, caller VergeResourceAPIWithContext, started time.Time, timeout time.Duration) error {
	if parent.Err() != nil {
		return fmt.Errorf("wait cancelled: %w", parent.Err())
	}
	return &WaitTimeoutError{
		Resource: caller.GetResourceType(),
		Waited:   time.Since(started).Round(time.Millisecond),
		Timeout:  timeout,
	}
}

// WaitForState polls the row identified by key until its "status" field
// reaches one of the wanted states. State comparison is case-insensitive.
func WaitForState(
	ctx context.Context,
	caller VergeResourceAPIWithContext,
	key any,
	waitConfig *WaitConfig,
	states ...string,
) (Record, error) {
	wanted := make(map[string]struct{}, len(states))
	for _, s := range states {
		wanted[strings.ToLower(s)] = struct{}{}
	}
	return WaitAPICondition(ctx, caller, Params{KeyField: key}, waitConfig, func(record Record) (bool, error) {
		status := strings.ToLower(record.RecordStatus())
		if _, ok := wanted[status]; ok {
			return true, nil
		}
		if status == "error" {
			return false, fmt.Errorf("resource %s key %v entered error state", caller.GetResourceType(), key)
		}
		return false, nil
	})
}
