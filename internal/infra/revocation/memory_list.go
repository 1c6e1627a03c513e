package revocation

import (
	"context"
	"sync"
	"time"

	"thalassist/internal/domain/repository"
)

// memoryList is a single-process TokenRevocationList. Expired entries are
// dropped lazily on write.
type memoryList struct {
	mu      sync.RWMutex
	revoked map[string]time.Time
	clock   func() time.Time
}

// NewMemoryList creates an empty list driven by clock.
func NewMemoryList(clock func() time.Time) repository.TokenRevocationList {
	if clock == nil {
		clock = time.Now
	}

	return &memoryList{revoked: make(map[string]time.Time), clock: clock}
}

// Revoke marks jti as revoked until ttl elapses.
func (l *memoryList) Revoke(_ context.Context, jti string, ttl time.Duration) error {
	if jti == "" || ttl <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	l.dropExpired(now)
	l.revoked[jti] = now.Add(ttl)

	return nil
}

// RevokeOnce checks and revokes jti under a single write lock.
func (l *memoryList) RevokeOnce(_ context.Context, jti string, ttl time.Duration) (bool, error) {
	if jti == "" || ttl <= 0 {
		return false, nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.clock()
	l.dropExpired(now)
	if _, revoked := l.revoked[jti]; revoked {
		return false, nil
	}
	l.revoked[jti] = now.Add(ttl)

	return true, nil
}

func (l *memoryList) dropExpired(now time.Time) {
	for id, expiresAt := range l.revoked {
		if !now.Before(expiresAt) {
			delete(l.revoked, id)
		}
	}
}

// IsRevoked reports whether jti is revoked and not yet expired.
func (l *memoryList) IsRevoked(_ context.Context, jti string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	expiresAt, ok := l.revoked[jti]
	if !ok {
		return false, nil
	}

	return l.clock().Before(expiresAt), nil
}
