package tenant_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storekit-io/storekit/pkg/tenant"
)

func TestContextInitialize(t *testing.T) {
	t.Parallel()

	t.Run("binds tenant and schema", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("acme-corp", nil))

		assert.Equal(t, "acme-corp", tc.TenantID())
		assert.Equal(t, "tenant_acme_corp", tc.Schema())
		assert.False(t, tc.IsSystem())
	})

	t.Run("empty candidate marks system context", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("", nil))

		assert.True(t, tc.IsSystem())
		assert.Empty(t, tc.TenantID())
		assert.Empty(t, tc.Schema())
	})

	t.Run("rejects invalid candidate", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		err := tc.Initialize("Acme-Corp", nil)
		require.ErrorIs(t, err, tenant.ErrInvalidIdentity)
		assert.Empty(t, tc.TenantID())
	})

	t.Run("rejects second initialization", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("acme-corp", nil))

		err := tc.Initialize("rival-store", nil)
		require.ErrorIs(t, err, tenant.ErrAlreadyInitialized)
		assert.Equal(t, "acme-corp", tc.TenantID(), "original binding must survive")
	})

	t.Run("carries principal", func(t *testing.T) {
		t.Parallel()

		p := &tenant.Principal{UserID: "u1", TenantID: "acme-corp"}
		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("acme-corp", p))

		got, ok := tc.Principal()
		require.True(t, ok)
		assert.Equal(t, p, got)
	})
}

func TestContextForceContext(t *testing.T) {
	t.Parallel()

	t.Run("binds tenant to system context", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("", nil))
		require.NoError(t, tc.ForceContext("acme-corp"))

		assert.Equal(t, "acme-corp", tc.TenantID())
		assert.Equal(t, "tenant_acme_corp", tc.Schema())
		assert.False(t, tc.IsSystem())
	})

	t.Run("rejects before initialization", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		require.ErrorIs(t, tc.ForceContext("acme-corp"), tenant.ErrNoContext)
	})

	t.Run("rejects when tenant already bound", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("acme-corp", nil))

		err := tc.ForceContext("rival-store")
		require.ErrorIs(t, err, tenant.ErrAlreadyInitialized)
		assert.Equal(t, "acme-corp", tc.TenantID())
	})

	t.Run("rejects invalid candidate", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("", nil))
		require.ErrorIs(t, tc.ForceContext("not valid"), tenant.ErrInvalidIdentity)
		assert.True(t, tc.IsSystem())
	})
}

func TestContextValidateAccess(t *testing.T) {
	t.Parallel()

	t.Run("allows own tenant", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("acme-corp", &tenant.Principal{UserID: "u1", TenantID: "acme-corp"}))

		assert.True(t, tc.ValidateAccess("acme-corp"))
		assert.False(t, tc.ValidateAccess("rival-store"))
		assert.False(t, tc.ValidateAccess(""))
	})

	t.Run("super-admin crosses tenants", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("acme-corp", &tenant.Principal{UserID: "admin", SuperAdmin: true}))

		assert.True(t, tc.ValidateAccess("rival-store"))
	})

	t.Run("system context without principal denies tenant data", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("", nil))

		assert.False(t, tc.ValidateAccess("acme-corp"))
	})
}

func TestContextPlumbing(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("acme-corp", nil))

		ctx := tenant.WithContext(context.Background(), tc)
		got, ok := tenant.FromContext(ctx)
		require.True(t, ok)
		assert.Same(t, tc, got)

		id, ok := tenant.IDFromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "acme-corp", id)
	})

	t.Run("absent context", func(t *testing.T) {
		t.Parallel()

		_, ok := tenant.FromContext(context.Background())
		assert.False(t, ok)
		_, ok = tenant.IDFromContext(context.Background())
		assert.False(t, ok)
		assert.Panics(t, func() { tenant.MustFromContext(context.Background()) })
	})

	t.Run("logger extractor", func(t *testing.T) {
		t.Parallel()

		extract := tenant.LoggerExtractor()

		tc := tenant.NewContext()
		require.NoError(t, tc.Initialize("acme-corp", nil))
		attr, ok := extract(tenant.WithContext(context.Background(), tc))
		require.True(t, ok)
		assert.Equal(t, "tenant_id", attr.Key)
		assert.Equal(t, "acme-corp", attr.Value.String())

		_, ok = extract(context.Background())
		assert.False(t, ok)
	})
}
