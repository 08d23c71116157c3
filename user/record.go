package user

import "time"

// Record is the stored representation of a registered user.
//
// PasswordDigest is opaque to this package; it is whatever the configured
// hasher produced at registration time.
type Record struct {
	Username       string
	PasswordDigest string
	Email          string
	CreatedAt      time.Time
}
