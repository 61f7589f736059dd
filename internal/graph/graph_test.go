package graph_test

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"

	"github.com/junioryono/inject/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testProvider struct {
	key   graph.NodeKey
	deps  []graph.NodeKey
	multi bool
}

func (p *testProvider) GraphKey() graph.NodeKey            { return p.key }
func (p *testProvider) GraphDependencies() []graph.NodeKey { return p.deps }
func (p *testProvider) IsMulti() bool                      { return p.multi }

func node(id int) graph.NodeKey {
	return graph.NodeKey{ID: id, Name: fmt.Sprintf("S%d", id)}
}

func provider(id int, deps ...int) *testProvider {
	p := &testProvider{key: node(id)}
	for _, d := range deps {
		p.deps = append(p.deps, node(d))
	}
	return p
}

func TestDependencyGraph_AddProvider(t *testing.T) {
	t.Run("nil provider", func(t *testing.T) {
		g := graph.NewDependencyGraph()
		assert.Error(t, g.AddProvider(nil))
	})

	t.Run("creates dependency nodes", func(t *testing.T) {
		g := graph.NewDependencyGraph()
		require.NoError(t, g.AddProvider(provider(1, 0)))

		var buf bytes.Buffer
		require.NoError(t, graph.NewVisualizer(g).WriteText(&buf))
		assert.Contains(t, buf.String(), "S0\n    Provider: external")
		assert.Contains(t, buf.String(), "Dependents: [S1]")
		assert.Equal(t, []graph.NodeKey{node(0)}, g.GetTransitiveDependencies(node(1)))
	})

	t.Run("replacement rewires edges", func(t *testing.T) {
		g := graph.NewDependencyGraph()
		require.NoError(t, g.AddProvider(provider(2, 0)))
		require.NoError(t, g.AddProvider(provider(2, 1)))

		assert.Equal(t, []graph.NodeKey{node(1)}, g.GetTransitiveDependencies(node(2)))

		var buf bytes.Buffer
		require.NoError(t, graph.NewVisualizer(g).WriteAdjacencyList(&buf))
		assert.Contains(t, buf.String(), "S2 -> [S1]")
	})

	t.Run("cycles are accepted and reported later", func(t *testing.T) {
		g := graph.NewDependencyGraph()
		require.NoError(t, g.AddProvider(provider(0, 1)))
		require.NoError(t, g.AddProvider(provider(1, 0)))

		assert.ErrorIs(t, g.DetectCycles(), graph.ErrCircularDependency)
	})
}

func TestDependencyGraph_DetectCycles(t *testing.T) {
	tests := []struct {
		name      string
		providers []*testProvider
		wantPath  []graph.NodeKey
	}{
		{
			name:      "acyclic chain",
			providers: []*testProvider{provider(0), provider(1, 0), provider(2, 1)},
		},
		{
			name:      "diamond",
			providers: []*testProvider{provider(0), provider(1, 0), provider(2, 0), provider(3, 1, 2)},
		},
		{
			name:      "self loop",
			providers: []*testProvider{provider(0, 0)},
			wantPath:  []graph.NodeKey{node(0)},
		},
		{
			name:      "three node cycle",
			providers: []*testProvider{provider(0, 1), provider(1, 2), provider(2, 0)},
			wantPath:  []graph.NodeKey{node(0), node(1), node(2)},
		},
		{
			name:      "cycle behind a prefix",
			providers: []*testProvider{provider(0, 1), provider(1, 2), provider(2, 1)},
			wantPath:  []graph.NodeKey{node(1), node(2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := graph.NewDependencyGraph()
			for _, p := range tt.providers {
				require.NoError(t, g.AddProvider(p))
			}

			err := g.DetectCycles()
			if tt.wantPath == nil {
				assert.NoError(t, err)
				return
			}

			var cycleErr graph.CircularDependencyError
			require.ErrorAs(t, err, &cycleErr)
			assert.True(t, errors.Is(err, graph.ErrCircularDependency))
			assert.Equal(t, tt.wantPath, cycleErr.Path)
			assert.Equal(t, tt.wantPath[0], cycleErr.Node)
		})
	}
}

func TestCircularDependencyError_Error(t *testing.T) {
	err := graph.CircularDependencyError{
		Node: node(0),
		Path: []graph.NodeKey{node(0), node(1)},
	}

	msg := err.Error()
	assert.Contains(t, msg, "circular dependency detected")
	assert.Contains(t, msg, "S0")
	assert.Contains(t, msg, "S1")
	assert.Contains(t, msg, "S0 (cycle)")
}

func TestDependencyGraph_GetTransitiveDependencies(t *testing.T) {
	g := graph.NewDependencyGraph()
	require.NoError(t, g.AddProvider(provider(0)))
	require.NoError(t, g.AddProvider(provider(1, 0)))
	require.NoError(t, g.AddProvider(provider(2, 1, 0)))
	require.NoError(t, g.AddProvider(provider(3, 3)))

	assert.Equal(t, []graph.NodeKey{node(1), node(0)}, g.GetTransitiveDependencies(node(2)))
	assert.Empty(t, g.GetTransitiveDependencies(node(0)))
	assert.Empty(t, g.GetTransitiveDependencies(node(3)))
	assert.Empty(t, g.GetTransitiveDependencies(node(9)))
}

func TestDependencyGraph_ConcurrentOperations(t *testing.T) {
	g := graph.NewDependencyGraph()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			if idx == 0 {
				assert.NoError(t, g.AddProvider(provider(0)))
				return
			}
			assert.NoError(t, g.AddProvider(provider(idx, idx-1)))
		}(i)
	}

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.DetectCycles()
			_ = g.GetTransitiveDependencies(node(9))
			_ = graph.NewVisualizer(g).WriteDOT(io.Discard)
		}()
	}

	wg.Wait()

	assert.NoError(t, g.DetectCycles())
	assert.Len(t, g.GetTransitiveDependencies(node(9)), 9)
}

func TestVisualizer_DepthLevels(t *testing.T) {
	g := graph.NewDependencyGraph()
	require.NoError(t, g.AddProvider(provider(0)))
	require.NoError(t, g.AddProvider(provider(1, 0)))
	require.NoError(t, g.AddProvider(provider(2, 1, 0)))

	var buf bytes.Buffer
	require.NoError(t, graph.NewVisualizer(g).WriteText(&buf))

	out := buf.String()
	assert.Regexp(t, `Level 0:\n-+\n  S0\n`, out)
	assert.Regexp(t, `Level 1:\n-+\n  S1\n`, out)
	assert.Regexp(t, `Level 2:\n-+\n  S2\n`, out)
	assert.Contains(t, out, "Root nodes (no dependents): 1")
	assert.Contains(t, out, "Leaf nodes (no dependencies): 1")

	// Degrees follow edges added after an earlier render.
	require.NoError(t, g.AddProvider(provider(3, 2)))
	buf.Reset()
	require.NoError(t, graph.NewVisualizer(g).WriteText(&buf))
	assert.Contains(t, buf.String(), "Level 3:")
	assert.Contains(t, buf.String(), "Total edges: 4")
}

func TestVisualizer(t *testing.T) {
	g := graph.NewDependencyGraph()
	require.NoError(t, g.AddProvider(provider(1, 0)))
	require.NoError(t, g.AddProvider(&testProvider{key: node(2), deps: []graph.NodeKey{node(1)}, multi: true}))

	v := graph.NewVisualizer(g)

	t.Run("dot", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, v.WriteDOT(&buf))

		out := buf.String()
		assert.Contains(t, out, "digraph dependencies {")
		assert.Contains(t, out, "n1 -> n0;")
		assert.Contains(t, out, "n2 -> n1;")
		assert.Contains(t, out, `fillcolor="lightgray"`)
		assert.Contains(t, out, `fillcolor="lightyellow"`)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, v.WriteText(&buf))

		out := buf.String()
		assert.Contains(t, out, "Level 0:")
		assert.Contains(t, out, "Level 2:")
		assert.Contains(t, out, "Provider: external")
		assert.Contains(t, out, "Total nodes: 3")
		assert.Contains(t, out, "Cycles: None")
	})

	t.Run("adjacency list", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, v.WriteAdjacencyList(&buf))
		assert.Contains(t, buf.String(), "S2 -> [S1]")
		assert.Contains(t, buf.String(), "S0 -> []")
	})

	t.Run("text with cycle", func(t *testing.T) {
		cyclic := graph.NewDependencyGraph()
		require.NoError(t, cyclic.AddProvider(provider(0, 1)))
		require.NoError(t, cyclic.AddProvider(provider(1, 0)))

		var buf bytes.Buffer
		require.NoError(t, graph.NewVisualizer(cyclic).WriteText(&buf))
		assert.Contains(t, buf.String(), "Nodes in Cycles:")
		assert.Contains(t, buf.String(), "Cycles: DETECTED")
	})
}
