package tenant

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

const (
	// MinIdentityLength rejects identifiers too short to be meaningful.
	// A one or two character identifier normalizes to a near-empty schema
	// name, which risks colliding with system schemas.
	MinIdentityLength = 3

	// MaxIdentityLength caps identifiers for DNS compatibility and to
	// prevent abuse via very long values.
	MaxIdentityLength = 63
)

// slugPattern accepts lowercase DNS-label style slugs: alphanumeric at both
// ends, single hyphens inside. Uppercase is rejected on purpose: "Acme-Corp"
// and "acme-corp" would derive the same schema name, so the ambiguity is
// resolved here, at validation time, not silently at derivation time.
var slugPattern = regexp.MustCompile(`^[a-z0-9]([a-z0-9-]*[a-z0-9])?$`)

// ValidateIdentity reports whether id is a well-formed tenant identifier:
// either a canonical (lowercase) UUID or a slug. Everything that reaches the
// rest of the package as a tenant identity must pass through here first.
func ValidateIdentity(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalidIdentity)
	}
	if len(id) < MinIdentityLength || len(id) > MaxIdentityLength {
		return fmt.Errorf("%w: length %d outside [%d,%d]", ErrInvalidIdentity, len(id), MinIdentityLength, MaxIdentityLength)
	}

	if u, err := uuid.Parse(id); err == nil {
		// uuid.Parse is permissive about case and wrapping; only the
		// canonical form is a valid identity so each tenant has exactly
		// one spelling.
		if u.String() != id {
			return fmt.Errorf("%w: non-canonical uuid %q", ErrInvalidIdentity, id)
		}
		return nil
	}

	if !slugPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidIdentity, id)
	}
	if strings.Contains(id, "--") {
		// Consecutive hyphens collapse to one underscore during schema
		// derivation, so "a--b" and "a-b" would collide.
		return fmt.Errorf("%w: consecutive hyphens in %q", ErrInvalidIdentity, id)
	}
	return nil
}
