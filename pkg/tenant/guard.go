package tenant

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/storekit-io/storekit/pkg/audit"
	"github.com/storekit-io/storekit/pkg/clientip"
	"github.com/storekit-io/storekit/pkg/requestid"
)

// Incident kinds emitted by the guard.
const (
	KindInvalidIdentity       = "invalid_tenant_identity"
	KindMissingTenantContext  = "missing_tenant_context"
	KindUnauthenticatedAccess = "unauthenticated_tenant_access"
	KindTenantMismatch        = "tenant_mismatch"
	KindUnknownTenant         = "unknown_tenant"
)

// Guard is the isolation-enforcement pipeline stage. It runs before every
// business handler and takes each request through a fixed sequence: resolve
// the candidate identity, bind it to a fresh request context, then check
// exemption, authentication linkage, and tenant mismatch. Exactly one of two
// terminal states is reached per request: the handler runs (Pass) or a
// generic rejection is written and the handler never runs (Reject).
type Guard struct {
	resolver   Resolver
	exemptions *ExemptionRegistry
	cfg        *guardConfig
}

// NewGuard builds a guard around the resolver chain and exemption table.
// The registry is frozen here: all exemptions must be registered before any
// route is protected.
func NewGuard(resolver Resolver, exemptions *ExemptionRegistry, opts ...Option) *Guard {
	if resolver == nil {
		panic("tenant: guard requires a resolver")
	}
	if exemptions == nil {
		exemptions = NewExemptionRegistry()
	}
	exemptions.Freeze()

	cfg := defaultGuardConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return &Guard{resolver: resolver, exemptions: exemptions, cfg: cfg}
}

// Protect returns the middleware for one registered operation. The operation
// name is fixed at route-registration time, so exemption lookups are explicit
// table hits rather than runtime name discovery.
//
//	r.With(guard.Protect("product.create")).Post("/stores/{store_id}/products", h)
func (g *Guard) Protect(operation string) func(http.Handler) http.Handler {
	if operation == "" {
		panic("tenant: Protect requires an operation name")
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tc := NewContext()
			r = r.WithContext(WithContext(r.Context(), tc))

			principal, _ := PrincipalFromContext(r.Context())
			exempt := g.exemptions.IsExempt(operation)

			candidate, resolveErr := g.resolver(r)
			if err := tc.Initialize(candidate, principal); err != nil {
				g.reject(w, r, rejection{
					kind:     KindInvalidIdentity,
					severity: audit.SeverityWarn,
					status:   http.StatusBadRequest,
					message:  "invalid tenant identifier",
					op:       operation,
					tc:       tc,
					detail:   map[string]string{"error": err.Error()},
				})
				return
			}
			tc.bindOperation(operation, exempt)

			if candidate == "" {
				if !exempt {
					detail := map[string]string{}
					if resolveErr != nil {
						// Only malformed candidates were seen; say so in
						// the audit trail, never in the response.
						detail["resolver"] = resolveErr.Error()
					}
					g.reject(w, r, rejection{
						kind:     KindMissingTenantContext,
						severity: audit.SeverityWarn,
						status:   http.StatusForbidden,
						message:  "tenant context required",
						op:       operation,
						tc:       tc,
						detail:   detail,
					})
					return
				}
			} else {
				if principal == nil && !exempt {
					// Anonymous requests must not be able to probe tenant
					// namespaces.
					g.reject(w, r, rejection{
						kind:     KindUnauthenticatedAccess,
						severity: audit.SeverityWarn,
						status:   http.StatusForbidden,
						message:  "access denied",
						op:       operation,
						tc:       tc,
					})
					return
				}
				if principal != nil && !principal.SuperAdmin && principal.TenantID != tc.TenantID() {
					// The one signature of an active cross-tenant attack.
					g.reject(w, r, rejection{
						kind:     KindTenantMismatch,
						severity: audit.SeverityCritical,
						status:   http.StatusForbidden,
						message:  "access denied",
						op:       operation,
						tc:       tc,
					})
					return
				}
				if g.cfg.directory != nil {
					info, err := g.cfg.directory.Lookup(r.Context(), candidate)
					if err != nil || info == nil || !info.Active {
						detail := map[string]string{}
						if err != nil {
							detail["lookup"] = err.Error()
						}
						g.reject(w, r, rejection{
							kind:     KindUnknownTenant,
							severity: audit.SeverityWarn,
							status:   http.StatusForbidden,
							message:  "access denied",
							op:       operation,
							tc:       tc,
							detail:   detail,
						})
						return
					}
				}
			}

			g.invoke(next, w, r, tc, operation)
		})
	}
}

// invoke is the Pass terminal state: the business handler runs with latency
// measurement and panic annotation.
func (g *Guard) invoke(next http.Handler, w http.ResponseWriter, r *http.Request, tc *Context, operation string) {
	start := time.Now()

	defer func() {
		elapsed := time.Since(start)
		if rec := recover(); rec != nil {
			// Annotate with the bound tenant for audit correlation, then
			// re-panic unchanged so the server's recovery chain applies.
			g.cfg.logger.LogAttrs(r.Context(), slog.LevelError, "handler panic in tenant-bound request",
				slog.String("operation", operation),
				slog.String("tenant_id", tc.TenantID()),
				slog.Any("panic", rec),
			)
			panic(rec)
		}
		if g.cfg.slowThreshold > 0 && elapsed > g.cfg.slowThreshold {
			g.cfg.logger.LogAttrs(r.Context(), slog.LevelWarn, "slow tenant operation",
				slog.String("operation", operation),
				slog.String("tenant_id", tc.TenantID()),
				slog.Duration("elapsed", elapsed),
			)
		}
	}()

	next.ServeHTTP(w, r)
}

type rejection struct {
	kind     string
	severity audit.Severity
	status   int
	message  string
	op       string
	tc       *Context
	detail   map[string]string
}

// reject is the Reject terminal state: one incident, one generic response,
// handler never invoked. Every incident field is copied by value here, before
// the sink's asynchronous hand-off, so the incident cannot observe another
// request's context later.
func (g *Guard) reject(w http.ResponseWriter, r *http.Request, rej rejection) {
	incident := audit.Incident{
		Kind:           rej.kind,
		Severity:       rej.severity,
		Operation:      rej.op,
		Method:         r.Method,
		Path:           r.URL.Path,
		IP:             clientip.GetIP(r),
		RequestID:      requestid.FromContext(r.Context()),
		ResolvedTenant: rej.tc.TenantID(),
		Details:        rej.detail,
	}
	if principal, ok := PrincipalFromContext(r.Context()); ok {
		incident.PrincipalTenant = principal.TenantID
		incident.PrincipalUser = principal.UserID
	}
	if err := g.cfg.sink.Record(r.Context(), incident); err != nil {
		// Sink failures never fail the pipeline.
		g.cfg.logger.LogAttrs(r.Context(), slog.LevelWarn, "audit sink failure",
			slog.String("kind", rej.kind),
			slog.Any("error", err),
		)
	}

	http.Error(w, rej.message, rej.status)
}
