// Package jwt issues and verifies HS256-signed session tokens carrying a
// subject, issue time and expiry.
//
// Tokens use the standard compact encoding (three base64url segments). No
// server-side state is kept; validity is decided by signature and claims at
// verification time. [Manager.Verify] reports failures as a [Status] so
// callers can tell expired tokens from forged or garbled ones.
package jwt
