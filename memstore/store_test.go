package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/tenantkit"
	"github.com/dmitrymomot/tenantkit/memstore"
)

func TestStoreTryAdd(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("adds new tenant", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		added, err := store.TryAdd(ctx, tenantkit.NewTenant("acme", "Acme Corp"))
		require.NoError(t, err)
		assert.True(t, added)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("reports duplicate identifier without error", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		added, err := store.TryAdd(ctx, tenantkit.NewTenant("acme", "Acme Corp"))
		require.NoError(t, err)
		require.True(t, added)

		added, err = store.TryAdd(ctx, tenantkit.NewTenant("acme", "Another Acme"))
		require.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("duplicate leaves existing tenant untouched", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		original := tenantkit.NewTenant("acme", "Acme Corp")
		added, err := store.TryAdd(ctx, original)
		require.NoError(t, err)
		require.True(t, added)

		added, err = store.TryAdd(ctx, tenantkit.NewTenant("acme", "Impostor"))
		require.NoError(t, err)
		require.False(t, added)

		got, err := store.GetByIdentifier(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", got.Name)
		assert.Equal(t, original.ID, got.ID)
	})

	t.Run("reports duplicate id without error", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		added, err := store.TryAdd(ctx, &tenantkit.Tenant{ID: "tenant-1", Identifier: "acme"})
		require.NoError(t, err)
		require.True(t, added)

		added, err = store.TryAdd(ctx, &tenantkit.Tenant{ID: "tenant-1", Identifier: "globex"})
		require.NoError(t, err)
		assert.False(t, added)
		assert.Equal(t, 1, store.Len())
	})

	t.Run("identifiers collide case-insensitively by default", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		added, err := store.TryAdd(ctx, tenantkit.NewTenant("Acme", "Acme Corp"))
		require.NoError(t, err)
		require.True(t, added)

		for _, variant := range []string{"acme", "ACME", "aCmE"} {
			added, err = store.TryAdd(ctx, tenantkit.NewTenant(variant, "Impostor"))
			require.NoError(t, err)
			assert.False(t, added, "variant %s should collide", variant)
		}
		assert.Equal(t, 1, store.Len())
	})

	t.Run("folds beyond ascii", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		added, err := store.TryAdd(ctx, tenantkit.NewTenant("MÜNCHEN", "München GmbH"))
		require.NoError(t, err)
		require.True(t, added)

		added, err = store.TryAdd(ctx, tenantkit.NewTenant("münchen", "Impostor"))
		require.NoError(t, err)
		assert.False(t, added)
	})

	t.Run("case-sensitive policy keeps variants distinct", func(t *testing.T) {
		t.Parallel()

		store := memstore.New(memstore.WithCaseSensitive())

		added, err := store.TryAdd(ctx, tenantkit.NewTenant("Acme", "Acme Corp"))
		require.NoError(t, err)
		require.True(t, added)

		added, err = store.TryAdd(ctx, tenantkit.NewTenant("acme", "Lower Acme"))
		require.NoError(t, err)
		assert.True(t, added)
		assert.Equal(t, 2, store.Len())
	})

	t.Run("rejects nil tenant", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		added, err := store.TryAdd(ctx, nil)
		assert.ErrorIs(t, err, tenantkit.ErrInvalidTenant)
		assert.False(t, added)
	})

	t.Run("rejects blank id and identifier", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		added, err := store.TryAdd(ctx, &tenantkit.Tenant{ID: "  ", Identifier: "acme"})
		assert.ErrorIs(t, err, tenantkit.ErrInvalidTenant)
		assert.False(t, added)

		added, err = store.TryAdd(ctx, &tenantkit.Tenant{ID: "tenant-1", Identifier: "  "})
		assert.ErrorIs(t, err, tenantkit.ErrInvalidTenant)
		assert.False(t, added)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("stores a copy of the tenant", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		tn := tenantkit.NewTenant("acme", "Acme Corp")
		tn.Items = map[string]string{"plan": "pro"}

		added, err := store.TryAdd(ctx, tn)
		require.NoError(t, err)
		require.True(t, added)

		// Mutations after registration must not leak into the store.
		tn.Name = "Changed"
		tn.Items["plan"] = "enterprise"

		got, err := store.GetByIdentifier(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "Acme Corp", got.Name)
		assert.Equal(t, "pro", got.Items["plan"])
	})
}

func TestStoreGetByIdentifier(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("finds registered tenant", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()
		tn := tenantkit.NewTenant("acme", "Acme Corp")

		_, err := store.TryAdd(ctx, tn)
		require.NoError(t, err)

		got, err := store.GetByIdentifier(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, tn.ID, got.ID)
		assert.Equal(t, "Acme Corp", got.Name)
	})

	t.Run("returns not found for unknown identifier", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		got, err := store.GetByIdentifier(ctx, "ghost")
		assert.ErrorIs(t, err, tenantkit.ErrTenantNotFound)
		assert.Nil(t, got)
	})

	t.Run("lookup follows the comparison policy", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()
		_, err := store.TryAdd(ctx, tenantkit.NewTenant("Acme", "Acme Corp"))
		require.NoError(t, err)

		got, err := store.GetByIdentifier(ctx, "ACME")
		require.NoError(t, err)
		assert.Equal(t, "Acme", got.Identifier)

		sensitive := memstore.New(memstore.WithCaseSensitive())
		_, err = sensitive.TryAdd(ctx, tenantkit.NewTenant("Acme", "Acme Corp"))
		require.NoError(t, err)

		_, err = sensitive.GetByIdentifier(ctx, "ACME")
		assert.ErrorIs(t, err, tenantkit.ErrTenantNotFound)
	})

	t.Run("returns a copy", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()
		tn := tenantkit.NewTenant("acme", "Acme Corp")
		tn.Items = map[string]string{"plan": "pro"}

		_, err := store.TryAdd(ctx, tn)
		require.NoError(t, err)

		first, err := store.GetByIdentifier(ctx, "acme")
		require.NoError(t, err)
		first.Items["plan"] = "enterprise"

		second, err := store.GetByIdentifier(ctx, "acme")
		require.NoError(t, err)
		assert.Equal(t, "pro", second.Items["plan"])
	})
}

func TestStoreRemove(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("removes registered tenant", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()
		_, err := store.TryAdd(ctx, tenantkit.NewTenant("acme", "Acme Corp"))
		require.NoError(t, err)

		removed, err := store.Remove(ctx, "ACME") // policy applies here too
		require.NoError(t, err)
		assert.True(t, removed)
		assert.Equal(t, 0, store.Len())

		_, err = store.GetByIdentifier(ctx, "acme")
		assert.ErrorIs(t, err, tenantkit.ErrTenantNotFound)
	})

	t.Run("reports missing tenant", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		removed, err := store.Remove(ctx, "ghost")
		require.NoError(t, err)
		assert.False(t, removed)
	})

	t.Run("frees identifier and id for re-registration", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()
		_, err := store.TryAdd(ctx, &tenantkit.Tenant{ID: "tenant-1", Identifier: "acme"})
		require.NoError(t, err)

		removed, err := store.Remove(ctx, "acme")
		require.NoError(t, err)
		require.True(t, removed)

		// Both the identifier and the id are available again.
		added, err := store.TryAdd(ctx, &tenantkit.Tenant{ID: "tenant-1", Identifier: "acme"})
		require.NoError(t, err)
		assert.True(t, added)
	})
}

func TestStoreAll(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("returns sorted snapshot", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()
		for _, identifier := range []string{"globex", "acme", "initech"} {
			_, err := store.TryAdd(ctx, tenantkit.NewTenant(identifier, identifier))
			require.NoError(t, err)
		}

		all, err := store.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 3)
		assert.Equal(t, "acme", all[0].Identifier)
		assert.Equal(t, "globex", all[1].Identifier)
		assert.Equal(t, "initech", all[2].Identifier)
	})

	t.Run("empty store yields empty snapshot", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()

		all, err := store.All(ctx)
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("snapshot does not track later changes", func(t *testing.T) {
		t.Parallel()

		store := memstore.New()
		_, err := store.TryAdd(ctx, tenantkit.NewTenant("acme", "Acme Corp"))
		require.NoError(t, err)

		all, err := store.All(ctx)
		require.NoError(t, err)
		require.Len(t, all, 1)

		_, err = store.TryAdd(ctx, tenantkit.NewTenant("globex", "Globex"))
		require.NoError(t, err)

		assert.Len(t, all, 1)
	})
}
