package graph

import (
	"fmt"
	"sort"
	"sync"
)

// Provider defines the interface for providers that can be added to the graph.
type Provider interface {
	// GraphKey returns the node the provider produces.
	GraphKey() NodeKey

	// GraphDependencies returns the nodes the provider consumes, in order.
	GraphDependencies() []NodeKey

	// IsMulti reports whether the provider produces a list of values.
	IsMulti() bool
}

// DependencyGraph manages the dependency relationships between providers.
// It provides cycle detection and dependency analysis.
type DependencyGraph struct {
	mu    sync.RWMutex
	nodes map[NodeKey]*Node
	edges map[NodeKey][]NodeKey // adjacency list representation

	// degreesDirty is set when edges changed since the last updateDegrees.
	degreesDirty bool
}

// NodeKey uniquely identifies a node in the graph.
type NodeKey struct {
	ID   int
	Name string
}

// Node represents a provider in the dependency graph.
type Node struct {
	Key      NodeKey
	Provider Provider // nil for nodes only known as dependencies

	InDegree  int // number of dependents
	OutDegree int // number of dependencies
	Depth     int // depth in dependency tree

	Dependencies []NodeKey // nodes this node depends on
	Dependents   []NodeKey // nodes that depend on this node
}

// NewDependencyGraph creates a new dependency graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{
		nodes: make(map[NodeKey]*Node),
		edges: make(map[NodeKey][]NodeKey),
	}
}

// AddProvider adds a provider and its dependency edges. A provider for an
// existing node replaces its edges. Cycles are reported by DetectCycles.
func (g *DependencyGraph) AddProvider(provider Provider) error {
	if provider == nil {
		return fmt.Errorf("provider cannot be nil")
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	nodeKey := provider.GraphKey()

	node := g.ensureNode(nodeKey)
	node.Provider = provider

	dependencies := append([]NodeKey(nil), provider.GraphDependencies()...)
	for _, dep := range dependencies {
		g.ensureNode(dep)
	}

	g.edges[nodeKey] = dependencies
	g.degreesDirty = true

	return nil
}

func (g *DependencyGraph) ensureNode(key NodeKey) *Node {
	node, exists := g.nodes[key]
	if !exists {
		node = &Node{Key: key}
		g.nodes[key] = node
	}
	return node
}

// updateDegrees recalculates degrees and adjacency lists for all nodes if
// edges changed. Callers hold the write lock.
func (g *DependencyGraph) updateDegrees() {
	if !g.degreesDirty {
		return
	}
	g.degreesDirty = false

	for _, node := range g.nodes {
		node.InDegree = 0
		node.OutDegree = 0
		node.Dependencies = nil
		node.Dependents = nil
	}

	for _, from := range g.sortedKeys() {
		tos := g.edges[from]
		fromNode := g.nodes[from]
		fromNode.OutDegree = len(tos)
		fromNode.Dependencies = append([]NodeKey(nil), tos...)

		for _, to := range tos {
			toNode := g.nodes[to]
			toNode.InDegree++
			toNode.Dependents = append(toNode.Dependents, from)
		}
	}
}

// sortedKeys returns node keys ordered by ID so traversals are deterministic.
func (g *DependencyGraph) sortedKeys() []NodeKey {
	keys := make([]NodeKey, 0, len(g.nodes))
	for key := range g.nodes {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		return keys[i].ID < keys[j].ID
	})
	return keys
}

// kahn orders every node not on or behind a cycle, leaves first. Degrees
// must be current.
func (g *DependencyGraph) kahn() []*Node {
	remaining := make(map[NodeKey]int, len(g.nodes))
	queue := make([]NodeKey, 0)
	for _, key := range g.sortedKeys() {
		remaining[key] = g.nodes[key].OutDegree
		if remaining[key] == 0 {
			queue = append(queue, key)
		}
	}

	result := make([]*Node, 0, len(g.nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		node := g.nodes[current]
		result = append(result, node)

		for _, dependent := range node.Dependents {
			remaining[dependent]--
			if remaining[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}
	return result
}

// DetectCycles checks the graph for cycles and returns the first one found,
// visiting nodes in ID order.
func (g *DependencyGraph) DetectCycles() error {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.detectCycles()
}

func (g *DependencyGraph) detectCycles() error {
	const (
		unvisited = iota
		visiting
		visited
	)

	state := make(map[NodeKey]int, len(g.nodes))
	var path []NodeKey

	var visit func(key NodeKey) error
	visit = func(key NodeKey) error {
		switch state[key] {
		case visited:
			return nil
		case visiting:
			start := 0
			for i, k := range path {
				if k == key {
					start = i
					break
				}
			}
			cycle := append([]NodeKey(nil), path[start:]...)
			return CircularDependencyError{Node: key, Path: cycle}
		}

		state[key] = visiting
		path = append(path, key)

		for _, dep := range g.edges[key] {
			if err := visit(dep); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		state[key] = visited
		return nil
	}

	for _, key := range g.sortedKeys() {
		if err := visit(key); err != nil {
			return err
		}
	}
	return nil
}

// GetTransitiveDependencies returns all dependencies (direct and indirect)
// in depth-first order.
func (g *DependencyGraph) GetTransitiveDependencies(key NodeKey) []NodeKey {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := map[NodeKey]bool{key: true}
	result := make([]NodeKey, 0)

	var collect func(current NodeKey)
	collect = func(current NodeKey) {
		for _, dep := range g.edges[current] {
			if !seen[dep] {
				seen[dep] = true
				result = append(result, dep)
				collect(dep)
			}
		}
	}

	collect(key)
	return result
}

func (g *DependencyGraph) filter(keep func(*Node) bool) []*Node {
	nodes := make([]*Node, 0)
	for _, key := range g.sortedKeys() {
		if node := g.nodes[key]; keep(node) {
			nodes = append(nodes, node)
		}
	}
	return nodes
}

// calculateDepths assigns depth levels to nodes. Leaves have depth 0; nodes
// on or behind a cycle keep depth -1.
func (g *DependencyGraph) calculateDepths() {
	g.updateDegrees()

	for _, node := range g.nodes {
		node.Depth = -1
	}

	for _, node := range g.kahn() {
		depth := 0
		for _, dep := range node.Dependencies {
			if d := g.nodes[dep].Depth + 1; d > depth {
				depth = d
			}
		}
		node.Depth = depth
	}
}

// String returns a string representation of the node key.
func (k NodeKey) String() string {
	if k.Name != "" {
		return k.Name
	}
	return fmt.Sprintf("#%d", k.ID)
}

// String returns a string representation of the node.
func (n *Node) String() string {
	return fmt.Sprintf("Node{%s, in:%d, out:%d, depth:%d}",
		n.Key.String(), n.InDegree, n.OutDegree, n.Depth)
}
