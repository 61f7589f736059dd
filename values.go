package inject

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ValuesFromYAML decodes a YAML mapping into value providers keyed by
// string tokens, in document order. Nested mappings contribute a provider
// for every path, joined with dots:
//
//	server:
//	  addr: ":8080"
//	  debug: true
//
// yields providers for "server" (a map[string]any), "server.addr" and
// "server.debug". An empty document yields no providers.
func ValuesFromYAML(data []byte) ([]Provider, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decode values: %w", err)
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("decode values: expected a mapping at line %d, got %s", root.Line, nodeKind(root))
	}

	var providers []Provider
	if err := collectValues(root, "", &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

func collectValues(node *yaml.Node, prefix string, providers *[]Provider) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		keyNode, valueNode := node.Content[i], node.Content[i+1]

		if keyNode.Kind != yaml.ScalarNode {
			return fmt.Errorf("decode values: key at line %d must be a scalar", keyNode.Line)
		}

		path := keyNode.Value
		if prefix != "" {
			path = prefix + "." + path
		}

		var value any
		if err := valueNode.Decode(&value); err != nil {
			return fmt.Errorf("decode values: %s: %w", path, err)
		}
		*providers = append(*providers, Value(path, value))

		if valueNode.Kind == yaml.MappingNode {
			if err := collectValues(valueNode, path, providers); err != nil {
				return err
			}
		}
	}
	return nil
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.SequenceNode:
		return "sequence"
	case yaml.ScalarNode:
		return "scalar"
	case yaml.AliasNode:
		return "alias"
	default:
		return fmt.Sprintf("kind %d", n.Kind)
	}
}
