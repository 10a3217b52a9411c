package tenant

import "time"

// Config carries the environment-tunable knobs of the isolation pipeline.
// Load it with the config package; zero values fall back to the defaults
// below.
type Config struct {
	RouteParam      string        `env:"TENANT_ROUTE_PARAM" envDefault:"store_id"`         // RouteParam is the chi route parameter naming the tenant/store resource.
	QueryParam      string        `env:"TENANT_QUERY_PARAM" envDefault:"tenant_id"`        // QueryParam is the URL query parameter naming the tenant.
	BodyField       string        `env:"TENANT_BODY_FIELD" envDefault:"tenant_id"`         // BodyField is the JSON body field naming the tenant.
	Header          string        `env:"TENANT_HEADER" envDefault:"X-Tenant-ID"`           // Header is the dedicated tenant identity header.
	SubdomainSuffix string        `env:"TENANT_SUBDOMAIN_SUFFIX"`                          // SubdomainSuffix is stripped from the host before subdomain extraction, e.g. ".storekit.app".
	SlowThreshold   time.Duration `env:"TENANT_SLOW_HANDLER_THRESHOLD" envDefault:"2s"`    // SlowThreshold is the handler latency past which a warning is logged.
	ExemptionsFile  string        `env:"TENANT_EXEMPTIONS_FILE"`                           // ExemptionsFile optionally points at a YAML exemption table loaded at startup.
	DirectoryTTL    time.Duration `env:"TENANT_DIRECTORY_CACHE_TTL" envDefault:"5m"`       // DirectoryTTL is how long directory lookups are cached.
}
