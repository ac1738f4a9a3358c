package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"
)

// NonRetryableError marks a failure that repeating the call cannot fix,
// such as a rejected API key or an invalid request body.
type NonRetryableError struct {
	Err error
}

func (e *NonRetryableError) Error() string {
	return fmt.Sprintf("non-retryable: %v", e.Err)
}

func (e *NonRetryableError) Unwrap() error {
	return e.Err
}

// NonRetryable wraps an error so the attempt loop fails immediately.
func NonRetryable(err error) error {
	if err == nil {
		return nil
	}
	return &NonRetryableError{Err: err}
}

// IsNonRetryable reports whether err carries a NonRetryableError anywhere
// in its chain.
func IsNonRetryable(err error) bool {
	var nre *NonRetryableError
	return errors.As(err, &nre)
}

// Config controls the attempt loop and the backoff schedule between
// attempts.
type Config struct {
	// MaxAttempts is the total number of calls, not the number of
	// retries. Values below one mean a single call.
	MaxAttempts int

	// InitialDelay is the backoff before the second attempt.
	InitialDelay time.Duration

	// MaxDelay caps the backoff regardless of the multiplier.
	MaxDelay time.Duration

	// Multiplier grows the backoff after each failed attempt.
	Multiplier float64

	// AddJitter spreads concurrent callers by adding up to 25% of the
	// computed delay.
	AddJitter bool
}

// DefaultConfig suits a rate-limited HTTP API: three calls in total, with
// delays starting at 100ms and capped at 5s.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:  3,
		InitialDelay: 100 * time.Millisecond,
		MaxDelay:     5 * time.Second,
		Multiplier:   2.0,
		AddJitter:    true,
	}
}

func (c Config) validate() error {
	if c.InitialDelay < 0 || c.MaxDelay < 0 {
		return errors.New("retry: delays cannot be negative")
	}
	if c.Multiplier < 0 {
		return errors.New("retry: multiplier cannot be negative")
	}
	if c.MaxDelay > 0 && c.InitialDelay > 0 && c.MaxDelay < c.InitialDelay {
		return errors.New("retry: MaxDelay must be >= InitialDelay")
	}
	return nil
}

// normalized fills zero fields from DefaultConfig so a partially built
// Config still produces a usable schedule.
func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.MaxAttempts < 1 {
		c.MaxAttempts = 1
	}
	if c.InitialDelay == 0 {
		c.InitialDelay = def.InitialDelay
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = def.MaxDelay
	}
	if c.Multiplier == 0 {
		c.Multiplier = def.Multiplier
	}
	return c
}

// backoff returns the delay before attempt n+1, where n is the number of
// attempts already made.
func (c Config) backoff(n int) time.Duration {
	scaled := float64(c.InitialDelay) * math.Pow(c.Multiplier, float64(n-1))
	if scaled >= float64(c.MaxDelay) || math.IsInf(scaled, 1) {
		return c.MaxDelay
	}
	delay := time.Duration(scaled)
	if c.AddJitter && delay >= 4 {
		delay += time.Duration(rand.Int63n(int64(delay / 4)))
	}
	return delay
}

// Do calls fn until it succeeds, it returns a NonRetryable error, the
// attempt budget runs out, or ctx is cancelled. Context cancellation cuts
// both the loop and any backoff sleep short.
func Do(ctx context.Context, cfg Config, fn func() error) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	cfg = cfg.normalized()

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("retry cancelled before attempt %d: %w", attempt, err)
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if IsNonRetryable(lastErr) {
			return lastErr
		}
		if attempt == cfg.MaxAttempts {
			break
		}

		timer := time.NewTimer(cfg.backoff(attempt))
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled during backoff for attempt %d: %w", attempt+1, ctx.Err())
		case <-timer.C:
		}
	}

	return fmt.Errorf("retry failed after %d attempts: %w", cfg.MaxAttempts, lastErr)
}

// DoWithResult runs fn under the same attempt loop as Do and hands back
// the value from the successful attempt.
func DoWithResult[T any](ctx context.Context, cfg Config, fn func() (T, error)) (T, error) {
	var result T
	err := Do(ctx, cfg, func() error {
		var innerErr error
		result, innerErr = fn()
		return innerErr
	})
	return result, err
}
