// Package lock provides per-key mutual exclusion used to serialize
// read-modify-write sequences on a single student.
package lock

import (
	"context"
	"errors"
)

// ErrLockTimeout is returned when a lock could not be acquired before the
// configured wait elapsed.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// Unlock releases a previously acquired lock. It is safe to call once.
type Unlock func()

// Locker hands out exclusive locks keyed by string. Holders of different
// keys never block each other.
type Locker interface {
	Lock(ctx context.Context, key string) (Unlock, error)
}
