package tenant

import (
	"context"
	"fmt"
	"log/slog"
)

// Context holds the tenant identity bound to exactly one request. It is
// created fresh by the guard at the start of request handling, initialized
// at most once, and discarded when the request completes. It must never be
// pooled, cached, or shared across requests; every field is written before
// the business handler runs and is read-only afterwards.
type Context struct {
	tenantID    string
	schema      string
	system      bool
	principal   *Principal
	operation   string
	exempt      bool
	initialized bool
}

// NewContext returns an empty, uninitialized request context.
func NewContext() *Context {
	return &Context{}
}

// Initialize binds the resolved candidate identity to this context. An empty
// candidate marks the request as a system context (not bound to any tenant).
// A non-empty candidate is validated and its schema name derived.
//
// Initialize may run exactly once per context. A second call returns
// ErrAlreadyInitialized: re-initialization means two pipeline stages both
// believe they own resolution, which is a bug that must surface, not be
// papered over by overwriting the binding.
func (c *Context) Initialize(candidate string, principal *Principal) error {
	if c.initialized {
		return ErrAlreadyInitialized
	}

	if candidate != "" {
		if err := ValidateIdentity(candidate); err != nil {
			return err
		}
		schema, err := DeriveSchema(candidate)
		if err != nil {
			return err
		}
		c.tenantID = candidate
		c.schema = schema
	}
	c.system = candidate == ""
	c.principal = principal
	c.initialized = true
	return nil
}

// ForceContext retroactively binds a tenant to a context that was initialized
// without one, for operations whose tenant is only known through side-channel
// means such as a session lookup. This is the single sanctioned way to bind a
// tenant after resolution; callers must never feed it raw header or body
// input.
func (c *Context) ForceContext(candidate string) error {
	if !c.initialized {
		return fmt.Errorf("%w: ForceContext before Initialize", ErrNoContext)
	}
	if !c.system {
		return fmt.Errorf("%w: tenant %q already bound", ErrAlreadyInitialized, c.tenantID)
	}
	if err := ValidateIdentity(candidate); err != nil {
		return err
	}
	schema, err := DeriveSchema(candidate)
	if err != nil {
		return err
	}
	c.tenantID = candidate
	c.schema = schema
	c.system = false
	return nil
}

// TenantID returns the bound tenant identifier, or "" for a system context.
func (c *Context) TenantID() string { return c.tenantID }

// Schema returns the derived storage partition name, or "" for a system
// context.
func (c *Context) Schema() string { return c.schema }

// IsSystem reports whether the request is not bound to any single tenant.
func (c *Context) IsSystem() bool { return c.system }

// Principal returns the authenticated principal bound at initialization.
func (c *Context) Principal() (*Principal, bool) {
	if c.principal == nil {
		return nil, false
	}
	return c.principal, true
}

// Operation returns the operation name this request was registered under.
func (c *Context) Operation() string { return c.operation }

// ValidateAccess is the authorization primitive every tenant-scoped data
// access must call before touching storage. It allows the access when the
// principal is a super-admin, when there is no principal and the operation
// is exempt, or when the target tenant equals the bound tenant.
func (c *Context) ValidateAccess(targetTenantID string) bool {
	if c.principal != nil && c.principal.SuperAdmin {
		return true
	}
	if c.principal == nil && c.exempt {
		return true
	}
	return targetTenantID != "" && targetTenantID == c.tenantID
}

// bindOperation records the registered operation name and its exemption
// status. Called by the guard before the checks run.
func (c *Context) bindOperation(name string, exempt bool) {
	c.operation = name
	c.exempt = exempt
}

// contextKey prevents collisions with other packages using context values.
type contextKey struct{}

// WithContext attaches the request-scoped tenant context.
func WithContext(ctx context.Context, tc *Context) context.Context {
	return context.WithValue(ctx, contextKey{}, tc)
}

// FromContext retrieves the request-scoped tenant context.
func FromContext(ctx context.Context) (*Context, bool) {
	tc, ok := ctx.Value(contextKey{}).(*Context)
	return tc, ok && tc != nil
}

// MustFromContext retrieves the tenant context and panics if it is absent.
// Use only in handlers that are always registered behind the guard.
func MustFromContext(ctx context.Context) *Context {
	tc, ok := FromContext(ctx)
	if !ok {
		panic("tenant: no tenant context in request")
	}
	return tc
}

// IDFromContext provides fast access to the bound tenant identifier without
// exposing the whole context.
func IDFromContext(ctx context.Context) (string, bool) {
	tc, ok := FromContext(ctx)
	if !ok || tc.tenantID == "" {
		return "", false
	}
	return tc.tenantID, true
}

// LoggerExtractor returns a context extractor for the logger package so the
// bound tenant id rides every log record emitted within the request.
func LoggerExtractor() func(ctx context.Context) (slog.Attr, bool) {
	return func(ctx context.Context) (slog.Attr, bool) {
		if id, ok := IDFromContext(ctx); ok {
			return slog.String("tenant_id", id), true
		}
		return slog.Attr{}, false
	}
}
