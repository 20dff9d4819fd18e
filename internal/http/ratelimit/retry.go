package ratelimit

import (
	"context"
	"math"
	"math/rand/v2"
	"strconv"
	"time"
)

// FetchRetryError is returned when every attempt for a URL failed
type FetchRetryError struct {
	URL        string
	Attempts   int
	LastStatus int
	LastError  error
}

func (e *FetchRetryError) Error() string {
	msg := "failed to fetch " + e.URL + " after " + strconv.Itoa(e.Attempts) + " attempts"
	if e.LastStatus != 0 {
		msg += " (HTTP " + strconv.Itoa(e.LastStatus) + ")"
	}
	if e.LastError != nil {
		msg += ": " + e.LastError.Error()
	}
	return msg
}

func (e *FetchRetryError) Unwrap() error {
	return e.LastError
}

// IsRetryableStatus reports whether a response status is worth retrying (429, 5xx)
func IsRetryableStatus(status int) bool {
	return status == 429 || (status >= 500 && status < 600)
}

// CalculateBackoff returns initialBackoff * 2^attempt, capped, plus up to 25% jitter
func CalculateBackoff(attempt int, config Config) time.Duration {
	config = config.withDefaults()
	delay := math.Min(float64(config.InitialBackoffMs)*math.Pow(2, float64(attempt)), float64(config.MaxBackoffMs))
	jitter := rand.Float64() * 0.25 * delay
	return time.Duration(delay+jitter) * time.Millisecond
}

// CalculateRateLimitBackoff honours Retry-After (seconds) and otherwise backs off with a 3x multiplier
func CalculateRateLimitBackoff(attempt int, config Config, retryAfter string) time.Duration {
	config = config.withDefaults()
	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds)*time.Second + time.Duration(rand.IntN(1000))*time.Millisecond
	}

	delay := math.Min(float64(config.InitialBackoffMs)*math.Pow(3, float64(attempt)), float64(config.MaxBackoffMs))
	jitter := rand.Float64() * 0.25 * delay
	return time.Duration(delay+jitter) * time.Millisecond
}

// Sleep waits for d or until ctx is done
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
