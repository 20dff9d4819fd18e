package ratelimit

import (
	"context"

	"golang.org/x/time/rate"
)

// Config holds outbound rate limiting and retry configuration
type Config struct {
	RequestsPerSecond float64 `json:"requestsPerSecond" mapstructure:"requests_per_second"`
	Burst             int     `json:"burst" mapstructure:"burst"`
	MaxRetries        int     `json:"maxRetries" mapstructure:"max_retries"`
	InitialBackoffMs  int     `json:"initialBackoffMs" mapstructure:"initial_backoff_ms"`
	MaxBackoffMs      int     `json:"maxBackoffMs" mapstructure:"max_backoff_ms"`
}

// DefaultConfig returns the default rate limit configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 5,
		Burst:             2,
		MaxRetries:        2,
		InitialBackoffMs:  100,
		MaxBackoffMs:      5000,
	}
}

// withDefaults fills zero fields from DefaultConfig
func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = d.RequestsPerSecond
	}
	if c.Burst <= 0 {
		c.Burst = d.Burst
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.InitialBackoffMs <= 0 {
		c.InitialBackoffMs = d.InitialBackoffMs
	}
	if c.MaxBackoffMs <= 0 {
		c.MaxBackoffMs = d.MaxBackoffMs
	}
	return c
}

// RateLimiter throttles outbound requests with a token bucket
type RateLimiter struct {
	config  Config
	limiter *rate.Limiter
}

// NewRateLimiter creates a limiter for the given config
func NewRateLimiter(config Config) *RateLimiter {
	config = config.withDefaults()
	return &RateLimiter{
		config:  config,
		limiter: rate.NewLimiter(rate.Limit(config.RequestsPerSecond), config.Burst),
	}
}

// Config returns the effective configuration
func (r *RateLimiter) Config() Config {
	return r.config
}

// Throttle blocks until a request may be sent or ctx is done
func (r *RateLimiter) Throttle(ctx context.Context) error {
	return r.limiter.Wait(ctx)
}
