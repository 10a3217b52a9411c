package tenant

import "context"

// Principal is the authenticated caller attached to a request by the
// upstream authentication stage before the isolation guard runs.
type Principal struct {
	UserID     string `json:"user_id"`
	TenantID   string `json:"tenant_id"`
	SuperAdmin bool   `json:"super_admin"`
	Role       string `json:"role"`
}

// principalKey prevents collisions with other packages using context values.
type principalKey struct{}

// WithPrincipal attaches the authenticated principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal, if any.
func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	if !ok || p == nil {
		return nil, false
	}
	return p, true
}
