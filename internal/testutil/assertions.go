package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/junioryono/inject"
)

// AssertResolvable resolves TypeOf[T]() and fails the test on error or nil.
func AssertResolvable[T any](t *testing.T, inj inject.Injector) T {
	t.Helper()
	value, err := inject.GetType[T](inj)
	require.NoError(t, err, "failed to resolve %s", inject.TypeOf[T]())
	require.NotNil(t, value, "resolved %s is nil", inject.TypeOf[T]())
	return value
}

// AssertNoProvider checks that err is a NoProviderError for token.
func AssertNoProvider(t *testing.T, err error, token any) {
	t.Helper()
	var noProvider *inject.NoProviderError
	require.ErrorAs(t, err, &noProvider)
	assert.Equal(t, token, noProvider.Key.Token)
	assert.ErrorIs(t, err, inject.ErrNoProvider)
}

// AssertCycle checks that err is a CircularDependencyError whose path has
// the given display names.
func AssertCycle(t *testing.T, err error, names ...string) {
	t.Helper()
	var cycle inject.CircularDependencyError
	require.ErrorAs(t, err, &cycle)
	assert.ErrorIs(t, err, inject.ErrCircularDependency)

	got := make([]string, len(cycle.Path))
	for i, k := range cycle.Path {
		got[i] = k.Name
	}
	assert.Equal(t, names, got)
}
