package tenant

import "errors"

var (
	// ErrInvalidIdentity is returned when a candidate tenant identifier
	// fails format validation.
	ErrInvalidIdentity = errors.New("invalid tenant identity")

	// ErrMissingTenantContext is returned when no tenant identity could be
	// resolved for a non-exempt operation.
	ErrMissingTenantContext = errors.New("tenant context required")

	// ErrUnauthenticatedAccess is returned when a tenant identity was
	// resolved but the request carries no authenticated principal.
	ErrUnauthenticatedAccess = errors.New("unauthenticated tenant access")

	// ErrTenantMismatch is returned when the authenticated principal belongs
	// to a different tenant than the one resolved from the request.
	ErrTenantMismatch = errors.New("tenant mismatch")

	// ErrUnknownTenant is returned when a syntactically valid identity does
	// not name a known, active tenant in the directory.
	ErrUnknownTenant = errors.New("unknown tenant")

	// ErrAlreadyInitialized is returned when Initialize is called twice on
	// the same request context. Re-initialization indicates a pipeline bug
	// and must fail loudly rather than silently rebind the tenant.
	ErrAlreadyInitialized = errors.New("tenant context already initialized")

	// ErrNoContext is returned when no request context has been attached
	// upstream, usually because the guard middleware is missing.
	ErrNoContext = errors.New("no tenant context in request")

	// ErrRegistryFrozen is returned when an exemption is registered after
	// the registry has been frozen for serving.
	ErrRegistryFrozen = errors.New("exemption registry is frozen")
)
