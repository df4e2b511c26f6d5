// Package adapter defines interfaces that will be implemented in the integration layer.
package adapter

import (
	"context"
	"time"
)

// RateLimitStore counts attempts per key inside a fixed window.
type RateLimitStore interface {
	// Allow records an attempt for key and reports whether it is within maxAttempts for the current window.
	Allow(ctx context.Context, key string, maxAttempts int, window time.Duration) (bool, error)
}
