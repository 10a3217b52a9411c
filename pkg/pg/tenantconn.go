package pg

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/storekit-io/storekit/pkg/tenant"
)

// TenantConn is a pooled connection pinned to one tenant's schema for the
// duration of a request. All unqualified table references resolve inside the
// tenant's partition, so repository code cannot accidentally read another
// storefront's rows.
type TenantConn struct {
	*pgxpool.Conn
	schema string
}

// Schema returns the schema this connection is pinned to.
func (c *TenantConn) Schema() string { return c.schema }

// Release resets the search_path before handing the connection back to the
// pool. A connection that kept a tenant search_path across requests would be
// a cross-tenant leak waiting to happen, so a failed reset destroys the
// connection instead of recycling it.
func (c *TenantConn) Release() {
	if _, err := c.Conn.Exec(context.Background(), "RESET search_path"); err != nil {
		c.Conn.Conn().Close(context.Background())
	}
	c.Conn.Release()
}

// AcquireTenant pins a pool connection to the schema bound in the request's
// tenant context. It fails for system contexts: tenantless requests have no
// business acquiring tenant-scoped storage.
func AcquireTenant(ctx context.Context, pool *pgxpool.Pool) (*TenantConn, error) {
	tc, ok := tenant.FromContext(ctx)
	if !ok || tc.Schema() == "" {
		return nil, ErrNoTenantSchema
	}
	return AcquireSchema(ctx, pool, tc.Schema())
}

// AcquireSchema pins a pool connection to an explicit schema. Prefer
// AcquireTenant; this exists for system-level jobs that iterate schemas.
func AcquireSchema(ctx context.Context, pool *pgxpool.Pool, schema string) (*TenantConn, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}

	// Identifier quoting, not parameter binding: search_path is DDL-ish and
	// cannot take placeholders.
	quoted := pgx.Identifier{schema}.Sanitize()
	if _, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s", quoted)); err != nil {
		conn.Release()
		return nil, fmt.Errorf("bind search_path to %s: %w", schema, err)
	}

	return &TenantConn{Conn: conn, schema: schema}, nil
}
