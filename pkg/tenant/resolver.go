package tenant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
)

// DefaultTenantHeader is the canonical header carrying a tenant identifier.
const DefaultTenantHeader = "X-Tenant-ID"

// maxBodyPeek bounds how much of a request body the body resolver will read.
const maxBodyPeek = 1 << 20

// Resolver extracts a candidate tenant identifier from an HTTP request.
// It returns "" when the source carries no identifier and an error wrapping
// ErrInvalidIdentity when the source carries a malformed one. Resolvers never
// consult the authenticated principal: principal linkage is a separate check
// in the guard, kept independent so spoofing is detected rather than masked.
type Resolver func(r *http.Request) (string, error)

// NewRouteParamResolver extracts the tenant from a named chi route parameter,
// e.g. {store_id} in /stores/{store_id}/products.
func NewRouteParamResolver(param string) Resolver {
	return func(r *http.Request) (string, error) {
		value := strings.TrimSpace(chi.URLParam(r, param))
		if value == "" {
			return "", nil
		}
		if err := ValidateIdentity(value); err != nil {
			return "", fmt.Errorf("route param %q: %w", param, err)
		}
		return value, nil
	}
}

// NewQueryResolver extracts the tenant from a URL query parameter.
func NewQueryResolver(param string) Resolver {
	return func(r *http.Request) (string, error) {
		value := strings.TrimSpace(r.URL.Query().Get(param))
		if value == "" {
			return "", nil
		}
		if err := ValidateIdentity(value); err != nil {
			return "", fmt.Errorf("query param %q: %w", param, err)
		}
		return value, nil
	}
}

// NewBodyResolver extracts the tenant from a top-level field of a JSON
// request body. The body is restored afterwards so downstream decoding sees
// it untouched. Non-JSON and empty bodies resolve to "".
func NewBodyResolver(field string) Resolver {
	return func(r *http.Request) (string, error) {
		if r.Body == nil || r.Body == http.NoBody {
			return "", nil
		}
		if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
			return "", nil
		}

		raw, err := io.ReadAll(io.LimitReader(r.Body, maxBodyPeek))
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(raw))
		if err != nil || len(raw) == 0 {
			return "", nil
		}

		var payload map[string]json.RawMessage
		if err := json.Unmarshal(raw, &payload); err != nil {
			return "", nil
		}
		var value string
		if err := json.Unmarshal(payload[field], &value); err != nil {
			return "", nil
		}
		value = strings.TrimSpace(value)
		if value == "" {
			return "", nil
		}
		if err := ValidateIdentity(value); err != nil {
			return "", fmt.Errorf("body field %q: %w", field, err)
		}
		return value, nil
	}
}

// NewHeaderResolver extracts the tenant from an HTTP header. Defaults to
// DefaultTenantHeader when name is empty.
func NewHeaderResolver(name string) Resolver {
	if name == "" {
		name = DefaultTenantHeader
	}
	return func(r *http.Request) (string, error) {
		value := strings.TrimSpace(r.Header.Get(name))
		if value == "" {
			return "", nil
		}
		if err := ValidateIdentity(value); err != nil {
			return "", fmt.Errorf("header %q: %w", name, err)
		}
		return value, nil
	}
}

// NewSubdomainResolver extracts the tenant from the host subdomain,
// optionally stripping a configured suffix such as ".storekit.app".
// The base domain and a bare "www" are not tenants.
func NewSubdomainResolver(suffix string) Resolver {
	return func(r *http.Request) (string, error) {
		host := r.Host
		if idx := strings.LastIndex(host, ":"); idx != -1 {
			host = host[:idx]
		}

		originalParts := strings.Split(host, ".")
		if len(originalParts) < 3 {
			// Need subdomain.domain.tld at minimum.
			return "", nil
		}

		if suffix != "" && strings.HasSuffix(host, suffix) && len(host) > len(suffix) {
			host = host[:len(host)-len(suffix)]
		}

		parts := strings.Split(host, ".")
		if len(parts) == 0 || parts[0] == "" {
			return "", nil
		}

		subdomain := parts[0]
		if subdomain == "www" {
			if len(parts) < 2 {
				return "", nil
			}
			subdomain = parts[1]
		}
		if subdomain == "" {
			return "", nil
		}

		if err := ValidateIdentity(subdomain); err != nil {
			return "", fmt.Errorf("subdomain %q: %w", subdomain, err)
		}
		return subdomain, nil
	}
}

// NewChainResolver tries resolvers in order and returns the first hit. A
// malformed value from one source is treated as "not found" so that lower
// precedence sources still get a chance; the validation failures are carried
// in the returned error alongside an empty identifier so the guard can attach
// them to the audit trail. A chain result of ("", non-nil) therefore means
// "nothing trustworthy found", never a hard failure.
func NewChainResolver(resolvers ...Resolver) Resolver {
	return func(r *http.Request) (string, error) {
		var errs []error
		for _, resolve := range resolvers {
			id, err := resolve(r)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			if id != "" {
				return id, nil
			}
		}
		if len(errs) > 0 {
			return "", errors.Join(errs...)
		}
		return "", nil
	}
}

// DefaultResolver assembles the standard extraction chain in precedence
// order: route parameter, query parameter, body field, header, subdomain.
func DefaultResolver(cfg Config) Resolver {
	return NewChainResolver(
		NewRouteParamResolver(cfg.RouteParam),
		NewQueryResolver(cfg.QueryParam),
		NewBodyResolver(cfg.BodyField),
		NewHeaderResolver(cfg.Header),
		NewSubdomainResolver(cfg.SubdomainSuffix),
	)
}
