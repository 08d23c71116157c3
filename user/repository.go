package user

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Get when no record exists for the username.
	ErrNotFound = errors.New("user not found")
	// ErrExists is returned by Put when the username is already taken.
	ErrExists = errors.New("user already exists")
	// ErrUnavailable wraps backend failures (network, timeouts, closed client).
	ErrUnavailable = errors.New("user repository unavailable")
	// ErrCorrupt is returned when a stored record cannot be decoded.
	ErrCorrupt = errors.New("user record corrupt")
)

// Repository is the storage boundary for user records.
//
// Put is insert-only and must be atomic with respect to concurrent Puts of
// the same username: exactly one caller wins, the rest observe ErrExists.
type Repository interface {
	Get(ctx context.Context, username string) (Record, error)
	Contains(ctx context.Context, username string) (bool, error)
	Put(ctx context.Context, rec Record) error
}
