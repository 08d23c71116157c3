package credstore

import (
	"errors"

	"github.com/MrEthical07/credstore/user"
)

var (
	// ErrInvalidConfig wraps every configuration validation failure.
	ErrInvalidConfig = errors.New("invalid credstore configuration")
	// ErrRepositoryUnavailable is returned when the user repository fails.
	// It matches user.ErrUnavailable under errors.Is.
	ErrRepositoryUnavailable = user.ErrUnavailable
	// ErrRecordCorrupt is returned when a stored record cannot be decoded.
	ErrRecordCorrupt = user.ErrCorrupt
	// ErrPasswordHash is returned when the hasher fails to produce or parse a digest.
	ErrPasswordHash = errors.New("password hashing failed")
	// ErrTokenIssue is returned when a token cannot be signed.
	ErrTokenIssue = errors.New("token issuance failed")
	// ErrStoreNotReady is returned by methods called on a nil or unbuilt Store.
	ErrStoreNotReady = errors.New("credential store not initialized")
)
