package audit_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit-io/storekit/pkg/audit"
)

func TestSlogSink(t *testing.T) {
	t.Parallel()

	t.Run("warn incident at warn level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		sink := audit.NewSlogSink(slog.New(slog.NewTextHandler(&buf, nil)))

		err := sink.Record(context.Background(), audit.Incident{
			Kind:           "missing_tenant_context",
			Severity:       audit.SeverityWarn,
			Operation:      "product.create",
			ResolvedTenant: "acme-corp",
			Details:        map[string]string{"resolver": "header malformed"},
		})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "level=WARN")
		assert.Contains(t, out, "security incident")
		assert.Contains(t, out, "kind=missing_tenant_context")
		assert.Contains(t, out, "operation=product.create")
		assert.Contains(t, out, "resolved_tenant=acme-corp")
		assert.Contains(t, out, "detail_resolver")
	})

	t.Run("critical incident at error level", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		sink := audit.NewSlogSink(slog.New(slog.NewTextHandler(&buf, nil)))

		err := sink.Record(context.Background(), audit.Incident{
			Kind:            "tenant_mismatch",
			Severity:        audit.SeverityCritical,
			ResolvedTenant:  "rival-store",
			PrincipalTenant: "acme-corp",
			PrincipalUser:   "u1",
		})
		require.NoError(t, err)

		out := buf.String()
		assert.Contains(t, out, "level=ERROR")
		assert.Contains(t, out, "kind=tenant_mismatch")
		assert.Contains(t, out, "principal_tenant=acme-corp")
	})

	t.Run("rejects invalid incident", func(t *testing.T) {
		t.Parallel()

		sink := audit.NewSlogSink(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
		err := sink.Record(context.Background(), audit.Incident{Severity: audit.SeverityWarn})
		require.ErrorIs(t, err, audit.ErrIncidentValidation)
	})
}

func TestSinkFunc(t *testing.T) {
	t.Parallel()

	var got audit.Incident
	sink := audit.SinkFunc(func(ctx context.Context, incident audit.Incident) error {
		got = incident
		return nil
	})

	require.NoError(t, sink.Record(context.Background(), audit.Incident{Kind: "tenant_mismatch"}))
	assert.Equal(t, "tenant_mismatch", got.Kind)
}
