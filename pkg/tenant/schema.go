package tenant

import (
	"fmt"
	"strings"
)

// SchemaPrefix namespaces every derived schema name so a tenant schema can
// never shadow a system schema such as "public".
const SchemaPrefix = "tenant_"

// DeriveSchema maps a tenant identifier to its physical storage partition
// name. The mapping is pure and deterministic: lowercase, replace anything
// outside [a-z0-9_] with an underscore, collapse runs of underscores, and
// prefix with SchemaPrefix.
//
// On the set of valid identities (see ValidateIdentity) the mapping is also
// injective: hyphen is the only character that maps to underscore, and
// underscores and consecutive hyphens are rejected at validation time.
// Identifiers that normalize to a near-empty name are rejected here as well,
// even if they slipped past validation, because an almost-empty schema name
// is itself a security risk.
func DeriveSchema(id string) (string, error) {
	if len(id) < MinIdentityLength {
		return "", fmt.Errorf("%w: identifier %q too short for schema derivation", ErrInvalidIdentity, id)
	}

	var b strings.Builder
	b.Grow(len(id))
	prevUnderscore := false
	significant := 0
	for _, r := range strings.ToLower(id) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			significant++
			prevUnderscore = false
		default:
			if !prevUnderscore {
				b.WriteByte('_')
			}
			prevUnderscore = true
		}
	}

	if significant < MinIdentityLength {
		return "", fmt.Errorf("%w: %q normalizes to a near-empty schema name", ErrInvalidIdentity, id)
	}

	name := strings.Trim(b.String(), "_")
	return SchemaPrefix + name, nil
}
