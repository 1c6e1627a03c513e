package repository

import (
	"context"
	"time"
)

// TokenRevocationList records revoked token ids (jti) until they would have expired anyway.
type TokenRevocationList interface {
	// Revoke marks jti as revoked for ttl. A non-positive ttl is a no-op.
	Revoke(ctx context.Context, jti string, ttl time.Duration) error

	// RevokeOnce revokes jti only if it is not already revoked and reports
	// whether this call did so. Concurrent callers with the same jti see at
	// most one true. A non-positive ttl claims nothing.
	RevokeOnce(ctx context.Context, jti string, ttl time.Duration) (bool, error)

	// IsRevoked reports whether jti has been revoked and has not yet expired.
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
