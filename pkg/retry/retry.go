package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

var (
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
	ErrContextCanceled    = errors.New("context canceled during retry")
)

// Config contains retry configuration
type Config struct {
	// MaxRetries is the number of retry attempts after the initial one
	MaxRetries int
	// InitialInterval is the first backoff interval
	InitialInterval time.Duration
	// MaxInterval caps the backoff interval
	MaxInterval time.Duration
	// Multiplier grows the interval after each attempt
	Multiplier float64
	// JitterFactor adds ±N% random jitter to each interval
	JitterFactor float64
}

// DefaultConfig returns exponential backoff: 1s, 2s, 4s, capped at 30s
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      3,
		InitialInterval: 1 * time.Second,
		MaxInterval:     30 * time.Second,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// Operation is the function to be retried
type Operation func(ctx context.Context) error

// Do runs op, retrying with exponential backoff until it succeeds,
// MaxRetries is exhausted, or ctx is done. The last operation error is
// wrapped into the returned error.
func Do(ctx context.Context, cfg *Config, op Operation) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			interval := backoffInterval(cfg, attempt)
			select {
			case <-ctx.Done():
				return errors.Join(ErrContextCanceled, lastErr)
			case <-time.After(interval):
			}
		}

		if lastErr = op(ctx); lastErr == nil {
			return nil
		}
	}

	return errors.Join(ErrMaxRetriesExceeded, lastErr)
}

func backoffInterval(cfg *Config, attempt int) time.Duration {
	interval := float64(cfg.InitialInterval) * math.Pow(cfg.Multiplier, float64(attempt-1))
	if interval > float64(cfg.MaxInterval) {
		interval = float64(cfg.MaxInterval)
	}
	if cfg.JitterFactor > 0 {
		jitter := interval * cfg.JitterFactor
		interval = interval - jitter + rand.Float64()*2*jitter
	}
	return time.Duration(interval)
}
