// Package auth is the authentication stage of the request pipeline: it turns
// a bearer token into an authenticated principal on the request context.
//
// The stage is deliberately non-blocking. It attaches a tenant.Principal
// when the token verifies and otherwise lets the request continue
// unauthenticated; the tenant isolation guard downstream is the component
// that decides whether an unauthenticated request may proceed. Token
// issuance (login) and password handling are separate concerns owned by the
// platform's account service.
package auth
