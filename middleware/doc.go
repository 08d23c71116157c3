// Package middleware adapts credstore token verification to net/http.
//
// [RequireToken] reads the Authorization header, attaches the caller's IP to
// the request context for audit events, and delegates the decision to a
// [TokenVerifier]. Handlers read the verified username with
// [SubjectFromContext].
//
// This package does not parse tokens itself.
package middleware
