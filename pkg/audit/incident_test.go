package audit_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit-io/storekit/pkg/audit"
)

func TestIncidentValidate(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		incident := audit.Incident{Kind: "tenant_mismatch", Severity: audit.SeverityCritical}
		require.NoError(t, incident.Validate())
	})

	t.Run("missing kind", func(t *testing.T) {
		t.Parallel()

		incident := audit.Incident{Severity: audit.SeverityWarn}
		require.ErrorIs(t, incident.Validate(), audit.ErrIncidentValidation)
	})

	t.Run("unknown severity", func(t *testing.T) {
		t.Parallel()

		incident := audit.Incident{Kind: "tenant_mismatch", Severity: "info"}
		require.ErrorIs(t, incident.Validate(), audit.ErrIncidentValidation)
	})
}

func TestStamp(t *testing.T) {
	t.Parallel()

	t.Run("fills generated fields", func(t *testing.T) {
		t.Parallel()

		stamped := audit.Stamp(audit.Incident{Kind: "tenant_mismatch", Severity: audit.SeverityWarn})
		assert.NotEmpty(t, stamped.ID)
		assert.False(t, stamped.OccurredAt.IsZero())
	})

	t.Run("preserves caller values", func(t *testing.T) {
		t.Parallel()

		original := audit.Stamp(audit.Incident{Kind: "tenant_mismatch", Severity: audit.SeverityWarn})
		again := audit.Stamp(original)
		assert.Equal(t, original.ID, again.ID)
		assert.Equal(t, original.OccurredAt, again.OccurredAt)
	})
}
