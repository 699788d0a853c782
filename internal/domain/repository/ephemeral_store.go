package repository

import (
	"context"
	"errors"
	"time"
)

// ErrEphemeralKeyNotFound is returned by Get when the key is missing or has expired.
var ErrEphemeralKeyNotFound = errors.New("ephemeral key not found")

// EphemeralStore is a key-value store whose entries disappear after their TTL.
// It backs verification tokens, one-time passcodes, rate-limit markers and refresh pointers.
type EphemeralStore interface {
	// Get returns the value, or ErrEphemeralKeyNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores the value, replacing any previous value and TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
