package inject

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resolvedFor(t *testing.T, keys *KeyRegistry, token any, multi bool, values ...any) *ResolvedProvider {
	t.Helper()
	key, err := keys.Get(token)
	require.NoError(t, err)

	rp := &ResolvedProvider{Key: key, Multi: multi}
	for _, v := range values {
		v := v
		rp.Factories = append(rp.Factories, &ResolvedFactory{
			Factory: func(...any) (any, error) { return v, nil },
		})
	}
	return rp
}

func produce(t *testing.T, rp *ResolvedProvider) []any {
	t.Helper()
	out := make([]any, len(rp.Factories))
	for i, f := range rp.Factories {
		v, err := f.Factory()
		require.NoError(t, err)
		out[i] = v
	}
	return out
}

func TestMergeProviders(t *testing.T) {
	t.Run("single providers replace in place", func(t *testing.T) {
		keys := NewKeyRegistry()
		merged, err := mergeProviders([]*ResolvedProvider{
			resolvedFor(t, keys, "a", false, 1),
			resolvedFor(t, keys, "b", false, 2),
			resolvedFor(t, keys, "a", false, 3),
		})
		require.NoError(t, err)
		require.Len(t, merged, 2)

		assert.Equal(t, "a", merged[0].Key.Token)
		assert.Equal(t, []any{3}, produce(t, merged[0]))
		assert.Equal(t, "b", merged[1].Key.Token)
	})

	t.Run("multi providers append in order", func(t *testing.T) {
		keys := NewKeyRegistry()
		merged, err := mergeProviders([]*ResolvedProvider{
			resolvedFor(t, keys, "cars", true, "A"),
			resolvedFor(t, keys, "other", false, 0),
			resolvedFor(t, keys, "cars", true, "B", "C"),
		})
		require.NoError(t, err)
		require.Len(t, merged, 2)

		assert.True(t, merged[0].Multi)
		assert.Equal(t, []any{"A", "B", "C"}, produce(t, merged[0]))
	})

	t.Run("multi input is not aliased", func(t *testing.T) {
		keys := NewKeyRegistry()
		first := resolvedFor(t, keys, "cars", true, "A")
		second := resolvedFor(t, keys, "cars", true, "B")

		merged, err := mergeProviders([]*ResolvedProvider{first, second})
		require.NoError(t, err)

		assert.NotSame(t, first, merged[0])
		assert.Len(t, first.Factories, 1)
		assert.Len(t, merged[0].Factories, 2)
	})

	t.Run("mixing multi and single fails", func(t *testing.T) {
		for _, order := range [][2]bool{{true, false}, {false, true}} {
			keys := NewKeyRegistry()
			existing := resolvedFor(t, keys, "cars", order[0], "A")
			incoming := resolvedFor(t, keys, "cars", order[1], "B")

			_, err := mergeProviders([]*ResolvedProvider{existing, incoming})

			var mixed *MixedMultiProviderError
			require.ErrorAs(t, err, &mixed)
			assert.ErrorIs(t, err, ErrMixedMultiProvider)
			assert.Equal(t, order[0], mixed.Existing.Multi)
			assert.Same(t, incoming, mixed.Incoming)
			assert.Contains(t, err.Error(), "cars")
		}
	})

	t.Run("merging is repeatable", func(t *testing.T) {
		keys := NewKeyRegistry()
		input := []*ResolvedProvider{
			resolvedFor(t, keys, "cars", true, "A"),
			resolvedFor(t, keys, "cars", true, "B"),
		}

		first, err := mergeProviders(input)
		require.NoError(t, err)
		second, err := mergeProviders(input)
		require.NoError(t, err)

		assert.Equal(t, produce(t, first[0]), produce(t, second[0]))
		assert.Len(t, input[0].Factories, 1)
	})
}

func TestResolvedProvider_Factory(t *testing.T) {
	keys := NewKeyRegistry()
	rp := resolvedFor(t, keys, "x", true, 1, 2)

	value, err := rp.Factory().Factory()
	require.NoError(t, err)
	assert.Equal(t, 1, value)

	assert.Nil(t, (&ResolvedProvider{}).Factory())
	assert.Equal(t, "ResolvedProvider{x, multi, factories: 2}", rp.String())
}
