package shared

import (
	"context"
	"time"
)

// IdempotencyStore tracks processed event IDs so integration handlers can
// discard duplicate deliveries.
type IdempotencyStore interface {
	// MarkProcessed atomically records the event ID with a TTL. Returns true
	// if the event was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error)
	// IsProcessed reports whether the event ID has already been processed
	IsProcessed(ctx context.Context, eventID string) (bool, error)
	// Close releases store resources
	Close() error
}

// IdempotencyConfig controls duplicate-event suppression
type IdempotencyConfig struct {
	// Enabled turns idempotency checking on or off
	Enabled bool
	// TTL is how long processed event IDs are remembered. After expiry a
	// redelivered event is processed again.
	TTL time.Duration
}

// DefaultIdempotencyConfig returns the default idempotency configuration
func DefaultIdempotencyConfig() IdempotencyConfig {
	return IdempotencyConfig{
		Enabled: true,
		TTL:     24 * time.Hour,
	}
}
