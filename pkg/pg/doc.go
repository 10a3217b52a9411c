// Package pg provides the PostgreSQL layer for the schema-per-tenant
// platform: pool construction with startup retry, health probing, error
// classification helpers, and tenant-pinned connections.
//
// The tenant-pinned connection is the piece that turns the tenant package's
// derived schema name into actual storage isolation:
//
//	conn, err := pg.AcquireTenant(r.Context(), pool)
//	if err != nil {
//		// system context or pool exhaustion
//	}
//	defer conn.Release()
//	rows, err := conn.Query(r.Context(), "SELECT id, title FROM products")
//
// The search_path is set on acquire and reset on release; a connection whose
// reset fails is destroyed rather than returned to the pool.
//
// Schema provisioning and migration are intentionally not handled here.
package pg
