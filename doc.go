// Package credstore is an in-process user-credential and session-token manager.
//
// A [Store] registers users, checks passwords, issues HS256-signed
// time-limited tokens, verifies them, and returns sanitized user info. Tokens
// are stateless: validity is decided by signature and expiry alone.
//
// Build a Store with [New] (the [Builder]) or, for the common in-memory case,
// [NewInMemory]. Store methods are safe to call from multiple goroutines.
//
// # Architecture boundaries
//
// credstore is the public surface. Storage lives behind [user.Repository],
// digests behind [password.Hasher], and token handling in package jwt. Audit
// dispatch is internal; metrics are exported by metrics/export/*.
//
// # Compatibility
//
// The default digest is unsalted hex SHA-256, matching existing legacy
// records. Select "argon2id" in [PasswordConfig] for salted
// digests; those are not readable by the legacy format.
//
// # What this package must NOT do
//
//   - Log or audit plaintext passwords, digests, or tokens.
//   - Re-check that a verified token's subject still exists.
//   - Persist tokens server-side.
package credstore
