package audit

import (
	"fmt"
	"time"
)

// Severity ranks a security incident.
type Severity string

const (
	// SeverityWarn covers routine misuse: missing tenant context,
	// unauthenticated probing, malformed identifiers.
	SeverityWarn Severity = "warn"
	// SeverityCritical is reserved for signals of an active attack,
	// above all a cross-tenant mismatch by an authenticated principal.
	SeverityCritical Severity = "critical"
)

// Incident is one security-relevant event emitted by the isolation pipeline.
// Every field is a plain value: incidents are captured by copy before any
// asynchronous hand-off so they can never alias a live request context.
type Incident struct {
	ID              string            `json:"id"`
	Kind            string            `json:"kind"`
	Severity        Severity          `json:"severity"`
	Operation       string            `json:"operation,omitempty"`
	Method          string            `json:"method,omitempty"`
	Path            string            `json:"path,omitempty"`
	IP              string            `json:"ip,omitempty"`
	RequestID       string            `json:"request_id,omitempty"`
	ResolvedTenant  string            `json:"resolved_tenant,omitempty"`
	PrincipalTenant string            `json:"principal_tenant,omitempty"`
	PrincipalUser   string            `json:"principal_user,omitempty"`
	Details         map[string]string `json:"details,omitempty"`
	OccurredAt      time.Time         `json:"occurred_at"`
}

// Validate checks the fields every incident must carry.
func (i *Incident) Validate() error {
	if i.Kind == "" {
		return fmt.Errorf("%w: kind is required", ErrIncidentValidation)
	}
	if i.Severity != SeverityWarn && i.Severity != SeverityCritical {
		return fmt.Errorf("%w: unknown severity %q", ErrIncidentValidation, i.Severity)
	}
	return nil
}
