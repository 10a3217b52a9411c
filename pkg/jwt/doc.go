// Package jwt implements minimal HS256 JWT signing and verification on the
// standard library's crypto primitives.
//
// Only one algorithm is supported on purpose. Tokens announcing anything
// other than HS256 are rejected before their claims are read, and signatures
// are compared in constant time.
//
// The auth package builds the platform's authentication stage on this
// service; see auth.Stage.
package jwt
