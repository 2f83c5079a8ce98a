package otp

import (
	"context"
	"time"
)

// Store holds at most one live code per phone number
type Store interface {
	// Put stores code for phone, replacing any previous code
	Put(ctx context.Context, phone, code string, ttl time.Duration) error
	// Consume atomically deletes the entry and returns true when code matches
	// an unexpired entry. A mismatch leaves the entry in place.
	Consume(ctx context.Context, phone, code string) (bool, error)
}
