package inject_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/inject"
	"github.com/junioryono/inject/internal/testutil"
)

func TestDefaultResolver(t *testing.T) {
	original := inject.Default()
	t.Cleanup(func() {
		require.NoError(t, inject.SetDefault(original))
	})

	require.NotNil(t, original)

	t.Run("nil is rejected", func(t *testing.T) {
		assert.ErrorIs(t, inject.SetDefault(nil), inject.ErrResolverNil)
		assert.Same(t, original, inject.Default())
	})

	t.Run("package functions use the default", func(t *testing.T) {
		resolver := inject.NewResolver()
		require.NoError(t, inject.SetDefault(resolver))
		assert.Same(t, resolver, inject.Default())

		resolved, err := inject.Resolve(engineType)
		require.NoError(t, err)
		require.Len(t, resolved, 1)
		assert.Equal(t, 1, resolver.Keys().NumberOfKeys())

		root, err := inject.FromResolvedProviders(resolved, nil)
		require.NoError(t, err)
		assert.Same(t, resolver, root.Resolver())

		child, err := inject.ResolveAndCreateChild(root, carType)
		require.NoError(t, err)

		car := testutil.AssertResolvable[*testutil.Car](t, child)
		engine := testutil.AssertResolvable[*testutil.Engine](t, root)
		assert.Same(t, engine, car.Engine)

		c, err := inject.ResolveAndCreate(inject.Value("k", "v"))
		require.NoError(t, err)
		assert.Nil(t, c.Parent())
		assert.Same(t, resolver, c.Resolver())
	})

	t.Run("existing containers keep their resolver", func(t *testing.T) {
		first := inject.NewResolver()
		require.NoError(t, inject.SetDefault(first))
		c, err := inject.ResolveAndCreate(engineType)
		require.NoError(t, err)

		require.NoError(t, inject.SetDefault(inject.NewResolver()))
		assert.Same(t, first, c.Resolver())

		child, err := c.CreateChild(carType)
		require.NoError(t, err)
		assert.Same(t, first, child.Resolver())
	})
}
