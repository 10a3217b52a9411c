package tenant

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

// ExemptionRegistry is the static table of operations allowed to run without
// a bound tenant: login, registration, health checks, system-level tenant
// administration. Entries are registered during startup, the registry is
// frozen before serving, and it is read-only afterwards. It is the one piece
// of process-wide state in this package.
type ExemptionRegistry struct {
	mu      sync.RWMutex
	entries map[string]bool
	frozen  bool
}

// NewExemptionRegistry returns an empty, unfrozen registry.
func NewExemptionRegistry() *ExemptionRegistry {
	return &ExemptionRegistry{entries: make(map[string]bool)}
}

// Register marks an operation as exempt (or explicitly not exempt) from the
// bound-tenant requirement. Registration after Freeze panics: a mutable
// exemption table at runtime would be a security hole, so misuse fails fast
// at startup rather than racing in production.
func (reg *ExemptionRegistry) Register(operation string, allowMissingTenant bool) {
	if operation == "" {
		panic("tenant: exemption with empty operation name")
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.frozen {
		panic(fmt.Sprintf("tenant: %v: %q", ErrRegistryFrozen, operation))
	}
	reg.entries[operation] = allowMissingTenant
}

// Freeze seals the registry. Idempotent.
func (reg *ExemptionRegistry) Freeze() {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.frozen = true
}

// IsExempt reports whether the operation may run without a bound tenant.
// Unknown operations are never exempt.
func (reg *ExemptionRegistry) IsExempt(operation string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return reg.entries[operation]
}

// exemptionsFile is the YAML shape accepted by LoadFile:
//
//	exemptions:
//	  - operation: auth.login
//	    allow_missing_tenant: true
type exemptionsFile struct {
	Exemptions []struct {
		Operation          string `yaml:"operation"`
		AllowMissingTenant bool   `yaml:"allow_missing_tenant"`
	} `yaml:"exemptions"`
}

// LoadFile merges exemption entries from a YAML file into the registry.
// Intended for startup-time configuration; fails on a frozen registry.
func (reg *ExemptionRegistry) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read exemptions file: %w", err)
	}

	var file exemptionsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse exemptions file %s: %w", path, err)
	}

	reg.mu.Lock()
	defer reg.mu.Unlock()
	if reg.frozen {
		return fmt.Errorf("%w: cannot load %s", ErrRegistryFrozen, path)
	}
	for _, e := range file.Exemptions {
		if e.Operation == "" {
			return fmt.Errorf("exemptions file %s: entry with empty operation name", path)
		}
		reg.entries[e.Operation] = e.AllowMissingTenant
	}
	return nil
}
