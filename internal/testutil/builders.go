package testutil

import (
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/junioryono/inject"
)

// NewContainer resolves providers with a fresh Resolver and fails the test
// on error.
func NewContainer(t *testing.T, providers ...any) *inject.Container {
	t.Helper()
	c, err := inject.NewResolver().ResolveAndCreate(providers...)
	require.NoError(t, err)
	require.NotNil(t, c)
	return c
}

// NewChild creates a child of parent with parent's resolver.
func NewChild(t *testing.T, parent *inject.Container, providers ...any) *inject.Container {
	t.Helper()
	c, err := parent.CreateChild(providers...)
	require.NoError(t, err)
	return c
}

// Counter counts factory invocations.
type Counter struct {
	calls atomic.Int32
}

// Calls returns the number of invocations so far.
func (c *Counter) Calls() int {
	return int(c.calls.Load())
}

// Factory wraps build so that every call is counted.
func (c *Counter) Factory(build func() any) inject.FactoryFunc {
	return func(...any) (any, error) {
		c.calls.Add(1)
		return build(), nil
	}
}
