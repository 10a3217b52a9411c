package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/storekit-io/storekit/pkg/jwt"
	"github.com/storekit-io/storekit/pkg/tenant"
)

// Claims is the token payload issued to platform users. The tenant id claim
// records which storefront the user authenticated against; the isolation
// guard later compares it with the tenant resolved from the request.
type Claims struct {
	jwt.StandardClaims
	TenantID   string `json:"tid,omitempty"`
	SuperAdmin bool   `json:"sadm,omitempty"`
	Role       string `json:"role,omitempty"`
}

// Stage is the authentication pipeline stage. It runs before the isolation
// guard and attaches an authenticated principal to the request context when
// a valid bearer token is presented. It never rejects: requests without a
// usable token simply proceed unauthenticated, and the guard decides whether
// that is acceptable for the operation.
type Stage struct {
	tokens *jwt.Service
}

// NewStage builds an authentication stage around a JWT service.
func NewStage(tokens *jwt.Service) *Stage {
	if tokens == nil {
		panic("auth: stage requires a token service")
	}
	return &Stage{tokens: tokens}
}

// Issue signs a token for the principal, valid for ttl.
func (s *Stage) Issue(p tenant.Principal, ttl time.Duration) (string, error) {
	now := time.Now()
	return s.tokens.Generate(Claims{
		StandardClaims: jwt.StandardClaims{
			Subject:   p.UserID,
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
		},
		TenantID:   p.TenantID,
		SuperAdmin: p.SuperAdmin,
		Role:       p.Role,
	})
}

// Middleware parses the Authorization bearer token and, when valid, attaches
// the principal to the request context.
func (s *Stage) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			next.ServeHTTP(w, r)
			return
		}

		var claims Claims
		if err := s.tokens.Parse(token, &claims); err != nil {
			// An unverifiable token is the same as no token. The guard
			// rejects unauthenticated tenant access where it matters.
			next.ServeHTTP(w, r)
			return
		}

		principal := &tenant.Principal{
			UserID:     claims.Subject,
			TenantID:   claims.TenantID,
			SuperAdmin: claims.SuperAdmin,
			Role:       claims.Role,
		}
		next.ServeHTTP(w, r.WithContext(tenant.WithPrincipal(r.Context(), principal)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}
	return parts[1], true
}
