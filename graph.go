package inject

import (
	"fmt"
	"io"

	"github.com/junioryono/inject/internal/graph"
)

// GraphFormat selects the output of Container.WriteGraph.
type GraphFormat int

const (
	// GraphText lists providers grouped by dependency depth.
	GraphText GraphFormat = iota

	// GraphDOT writes Graphviz DOT.
	GraphDOT

	// GraphAdjacency writes one "key -> [deps]" line per key.
	GraphAdjacency
)

// graphProvider adapts a ResolvedProvider to the graph package.
type graphProvider struct {
	provider *ResolvedProvider
	deps     []graph.NodeKey
}

func (p *graphProvider) GraphKey() graph.NodeKey            { return nodeKey(p.provider.Key) }
func (p *graphProvider) GraphDependencies() []graph.NodeKey { return p.deps }
func (p *graphProvider) IsMulti() bool                      { return p.provider.Multi }

// buildGraph records the container's local dependency edges and rejects
// cycles among them. SkipSelf dependencies never resolve locally, so they
// are left out; every other dependency on a locally provided key is
// satisfied by this container and therefore participates in cycles.
func buildGraph(r *Resolver, providers []*ResolvedProvider) (*graph.DependencyGraph, error) {
	g := graph.NewDependencyGraph()

	for _, rp := range providers {
		node := &graphProvider{provider: rp}

		for _, factory := range rp.Factories {
			for _, dep := range factory.Dependencies {
				if dep.Visibility == VisibilitySkipSelf {
					continue
				}
				if isSelfKey(dep.Key) {
					continue
				}
				node.deps = append(node.deps, nodeKey(dep.Key))
			}
		}

		if err := g.AddProvider(node); err != nil {
			return nil, err
		}
	}

	if err := g.DetectCycles(); err != nil {
		return nil, err
	}

	r.logger.Debug("dependency graph validated")
	return g, nil
}

// WriteGraph writes the container's local dependency graph. Keys provided
// by ancestors appear as external nodes.
func (c *Container) WriteGraph(w io.Writer, format GraphFormat) error {
	v := graph.NewVisualizer(c.graph)

	switch format {
	case GraphText:
		return v.WriteText(w)
	case GraphDOT:
		return v.WriteDOT(w)
	case GraphAdjacency:
		return v.WriteAdjacencyList(w)
	default:
		return fmt.Errorf("unknown graph format %d", int(format))
	}
}

// Dependencies returns the distinct keys the local provider for token
// depends on, or nil if the container does not provide token itself.
func (c *Container) Dependencies(token any) ([]*Key, error) {
	key, err := c.resolver.keys.Get(token)
	if err != nil {
		return nil, err
	}

	rp, ok := c.providers[key.ID]
	if !ok {
		return nil, nil
	}

	var keys []*Key
	seen := make(map[int]bool)
	for _, factory := range rp.Factories {
		for _, dep := range factory.Dependencies {
			if !seen[dep.Key.ID] {
				seen[dep.Key.ID] = true
				keys = append(keys, dep.Key)
			}
		}
	}
	return keys, nil
}

// TransitiveDependencies returns every key reachable from the local provider
// for token through dependencies this container satisfies itself, depth
// first. SkipSelf dependencies are not followed. It returns nil if the
// container does not provide token itself.
func (c *Container) TransitiveDependencies(token any) ([]*Key, error) {
	key, err := c.resolver.keys.Get(token)
	if err != nil {
		return nil, err
	}

	if _, ok := c.providers[key.ID]; !ok {
		return nil, nil
	}

	known := make(map[int]*Key)
	for _, rp := range c.order {
		for _, factory := range rp.Factories {
			for _, dep := range factory.Dependencies {
				known[dep.Key.ID] = dep.Key
			}
		}
	}

	nodes := c.graph.GetTransitiveDependencies(nodeKey(key))
	keys := make([]*Key, len(nodes))
	for i, n := range nodes {
		keys[i] = known[n.ID]
	}
	return keys, nil
}
