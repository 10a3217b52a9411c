// Package tenant binds every inbound request to exactly one storefront and
// vetoes any operation whose resolved tenant does not match the caller's
// authenticated tenant.
//
// Many independent storefronts share one process and one database server;
// the worst possible bug class for such a platform is silent cross-tenant
// data disclosure. This package is the dedicated defense: identity
// extraction, a request-scoped context, an enforcement middleware, and the
// deterministic mapping from tenant identity to storage schema all live
// here, separate from ordinary CRUD logic.
//
// # Architecture
//
// Four pieces cooperate per request:
//
//  1. Resolvers extract a candidate identifier from the request (route
//     parameter, query, body field, header, subdomain; first match wins).
//     Malformed values are treated as not found so lower-precedence sources
//     still get a chance.
//  2. Context holds the validated identity, its derived schema name, the
//     system-context flag, and the authenticated principal for the lifetime
//     of one request. It is initialized at most once and never shared,
//     pooled, or cached across requests.
//  3. Guard orchestrates the per-request checks: exemption lookup for
//     tenantless requests, authentication linkage, and tenant mismatch
//     detection, reporting rejections to the audit sink.
//  4. DeriveSchema maps a valid identity to its tenant_* storage partition,
//     deterministically and injectively.
//
// # Usage
//
//	exemptions := tenant.NewExemptionRegistry()
//	exemptions.Register("auth.login", true)
//	exemptions.Register("system.health", true)
//
//	guard := tenant.NewGuard(
//		tenant.DefaultResolver(cfg),
//		exemptions,
//		tenant.WithAuditSink(sink),
//	)
//
//	r := chi.NewRouter()
//	r.With(guard.Protect("auth.login")).Post("/login", login)
//	r.With(guard.Protect("product.create")).Post("/stores/{store_id}/products", createProduct)
//
// Handlers read the tenant exclusively through the context, never by
// re-parsing the request:
//
//	func createProduct(w http.ResponseWriter, r *http.Request) {
//		tc := tenant.MustFromContext(r.Context())
//		if !tc.ValidateAccess(productOwner) {
//			// reject before touching storage
//		}
//		schema := tc.Schema() // e.g. "tenant_acme_corp"
//	}
//
// # Concurrency
//
// The request context is threaded as an explicit value through the request's
// context.Context; there is no package-level mutable state besides the
// exemption registry, which is frozen before serving. Without cross-request
// shared state there is nothing to lock in the hot path, and a tenant
// identity cannot leak between concurrently interleaved requests.
//
// # Error taxonomy
//
//   - ErrInvalidIdentity: malformed candidate, 400-class.
//   - ErrMissingTenantContext: nothing resolved, operation not exempt, 403.
//   - ErrUnauthenticatedAccess: identity without principal, 403.
//   - ErrTenantMismatch: principal's tenant differs from the resolved one,
//     403 and a CRITICAL audit incident.
//
// All rejection responses are intentionally generic; which source failed and
// the exact mismatch values go only to the audit trail, never to the client.
package tenant
