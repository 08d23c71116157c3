// Package password implements password digests behind the [Hasher] interface.
//
// # Algorithms
//
//   - [SHA256]: unsalted hex SHA-256, the legacy digest format. Default for
//     compatibility with existing records.
//   - [Argon2]: Argon2id with a random salt, encoded in PHC string format
//     as $argon2id$v=19$m=<memory>,t=<time>,p=<threads>$<salt>$<hash>.
//
// Both implementations compare digests in constant time.
//
// # Architecture boundaries
//
// This package owns hashing and verification only. It has no notion of users
// and enforces no password policy.
//
// # What this package must NOT do
//
//   - Store or retrieve digests; callers persist them.
//   - Import any other credstore package.
//   - Log plaintext passwords or digests.
package password
