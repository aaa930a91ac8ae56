package lock

import (
	"context"
	"time"
)

// Locker serializes critical sections across request handlers. Keys
// are logical resources, e.g. "quota:<student>:<month>".
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Unlock(ctx context.Context, key string) error
}
