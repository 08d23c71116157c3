// Package user provides the user-record model and the repository boundary the
// credential store persists through.
//
// # Backends
//
//   - [MemoryRepository]: process-local map guarded by a RWMutex.
//   - [RedisRepository]: records encoded with [Encode] and stored under
//     <prefix>:user:<username>; uniqueness is enforced with SETNX.
//
// # Binary encoding
//
// Records are stored as a compact versioned binary blob. Length-prefixed
// fields are capped at 255 bytes.
//
// # What this package must NOT do
//
//   - Import credstore, jwt, or password (no upward imports).
//   - Hash, compare, or otherwise interpret password digests.
//   - Update or delete records; the repository is insert-only.
package user
