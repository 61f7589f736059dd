package graph

import (
	"fmt"
	"io"
	"strings"
)

// Visualizer provides methods to visualize the dependency graph
type Visualizer struct {
	graph *DependencyGraph
}

// NewVisualizer creates a new graph visualizer
func NewVisualizer(graph *DependencyGraph) *Visualizer {
	return &Visualizer{graph: graph}
}

// WriteDOT writes the graph in Graphviz DOT format
func (v *Visualizer) WriteDOT(w io.Writer) error {
	v.graph.mu.Lock()
	defer v.graph.mu.Unlock()

	v.graph.updateDegrees()

	var b strings.Builder
	b.WriteString("digraph dependencies {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")

	keys := v.graph.sortedKeys()
	for _, key := range keys {
		node := v.graph.nodes[key]
		fmt.Fprintf(&b, "  n%d [label=\"%s\", fillcolor=\"%s\", style=filled];\n",
			key.ID, v.formatNodeLabel(node), v.getNodeColor(node))
	}

	for _, from := range keys {
		for _, to := range v.graph.edges[from] {
			fmt.Fprintf(&b, "  n%d -> n%d;\n", from.ID, to.ID)
		}
	}

	b.WriteString("}\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteText writes a text representation of the graph grouped by depth
func (v *Visualizer) WriteText(w io.Writer) error {
	v.graph.mu.Lock()
	defer v.graph.mu.Unlock()

	var b strings.Builder
	b.WriteString("Dependency Graph:\n")
	b.WriteString("=================\n\n")

	v.graph.calculateDepths()

	depthGroups := make(map[int][]*Node)
	maxDepth := 0
	for _, key := range v.graph.sortedKeys() {
		node := v.graph.nodes[key]
		depthGroups[node.Depth] = append(depthGroups[node.Depth], node)
		if node.Depth > maxDepth {
			maxDepth = node.Depth
		}
	}

	for depth := 0; depth <= maxDepth; depth++ {
		nodes, exists := depthGroups[depth]
		if !exists {
			continue
		}
		fmt.Fprintf(&b, "Level %d:\n", depth)
		b.WriteString("--------\n")
		for _, node := range nodes {
			v.writeNodeDetails(&b, node, "  ")
		}
		b.WriteString("\n")
	}

	// Depth stays -1 for nodes on or behind a cycle.
	if cycleNodes, exists := depthGroups[-1]; exists {
		b.WriteString("Nodes in Cycles:\n")
		b.WriteString("----------------\n")
		for _, node := range cycleNodes {
			v.writeNodeDetails(&b, node, "  ")
		}
		b.WriteString("\n")
	}

	v.writeStatistics(&b)

	_, err := io.WriteString(w, b.String())
	return err
}

// WriteAdjacencyList writes the graph as an adjacency list
func (v *Visualizer) WriteAdjacencyList(w io.Writer) error {
	v.graph.mu.RLock()
	defer v.graph.mu.RUnlock()

	var b strings.Builder
	b.WriteString("Adjacency List:\n")
	b.WriteString("===============\n\n")

	for _, from := range v.graph.sortedKeys() {
		tos := v.graph.edges[from]
		names := make([]string, len(tos))
		for i, to := range tos {
			names[i] = to.String()
		}
		fmt.Fprintf(&b, "%s -> [%s]\n", from.String(), strings.Join(names, ", "))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func (v *Visualizer) formatNodeLabel(node *Node) string {
	name := strings.ReplaceAll(node.Key.String(), `"`, `\"`)
	return fmt.Sprintf("%s\\nIn:%d Out:%d", name, node.InDegree, node.OutDegree)
}

func (v *Visualizer) getNodeColor(node *Node) string {
	switch {
	case node.Provider == nil:
		return "lightgray" // provided by an ancestor or missing
	case node.Provider.IsMulti():
		return "lightyellow"
	default:
		return "lightblue"
	}
}

func (v *Visualizer) writeNodeDetails(b *strings.Builder, node *Node, indent string) {
	fmt.Fprintf(b, "%s%s\n", indent, node.Key.String())

	switch {
	case node.Provider == nil:
		fmt.Fprintf(b, "%s  Provider: external\n", indent)
	case node.Provider.IsMulti():
		fmt.Fprintf(b, "%s  Provider: multi\n", indent)
	}

	if len(node.Dependencies) > 0 {
		fmt.Fprintf(b, "%s  Dependencies: [%s]\n", indent, joinKeys(node.Dependencies))
	}

	if len(node.Dependents) > 0 {
		fmt.Fprintf(b, "%s  Dependents: [%s]\n", indent, joinKeys(node.Dependents))
	}
}

func (v *Visualizer) writeStatistics(b *strings.Builder) {
	b.WriteString("Statistics:\n")
	b.WriteString("-----------\n")
	fmt.Fprintf(b, "  Total nodes: %d\n", len(v.graph.nodes))
	fmt.Fprintf(b, "  Total edges: %d\n", v.countEdges())

	leaves := v.graph.filter(func(n *Node) bool { return n.OutDegree == 0 })
	roots := v.graph.filter(func(n *Node) bool { return n.InDegree == 0 })
	fmt.Fprintf(b, "  Root nodes (no dependents): %d\n", len(roots))
	fmt.Fprintf(b, "  Leaf nodes (no dependencies): %d\n", len(leaves))

	if v.graph.detectCycles() == nil {
		b.WriteString("  Cycles: None (graph is acyclic)\n")
	} else {
		b.WriteString("  Cycles: DETECTED (graph contains circular dependencies)\n")
	}
}

func (v *Visualizer) countEdges() int {
	count := 0
	for _, edges := range v.graph.edges {
		count += len(edges)
	}
	return count
}

func joinKeys(keys []NodeKey) string {
	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}
	return strings.Join(names, ", ")
}
