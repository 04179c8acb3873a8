package ports

import (
	"context"
	"time"
)

// UnlockFunc releases a lock obtained from a Locker.
type UnlockFunc func(ctx context.Context) error

// Locker serializes work on a key, e.g. two renders of the same run writing one plots directory.
type Locker interface {
	// Lock blocks until the lock for key is held or ctx is done.
	// Implementations may expire the lock after ttl; a zero ttl means no expiry.
	// The returned UnlockFunc must be called to release it.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
