package engine

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ValueFromYAMLNode decodes a *yaml.Node into the document tree's Value
// representation, preserving map key order the way the recipe author wrote
// it (required by §3's document-tree ordering invariant).
func ValueFromYAMLNode(node *yaml.Node) (Value, error) {
	if node == nil {
		return Null(), nil
	}

	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return Null(), nil
		}
		return ValueFromYAMLNode(node.Content[0])

	case yaml.ScalarNode:
		return scalarFromYAMLNode(node), nil

	case yaml.SequenceNode:
		items := make([]Value, 0, len(node.Content))
		for _, child := range node.Content {
			v, err := ValueFromYAMLNode(child)
			if err != nil {
				return Null(), err
			}
			items = append(items, v)
		}
		return List(items), nil

	case yaml.MappingNode:
		m := NewOrderedMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode := node.Content[i]
			valNode := node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return Null(), fmt.Errorf("unsupported non-scalar map key at line %d", keyNode.Line)
			}
			v, err := ValueFromYAMLNode(valNode)
			if err != nil {
				return Null(), err
			}
			m.Set(keyNode.Value, v)
		}
		return Map(m), nil

	case yaml.AliasNode:
		return ValueFromYAMLNode(node.Alias)

	default:
		return Null(), fmt.Errorf("unsupported YAML node kind %v at line %d", node.Kind, node.Line)
	}
}

func scalarFromYAMLNode(node *yaml.Node) Value {
	switch node.Tag {
	case "!!null":
		return Null()
	case "!!bool":
		b, err := strconv.ParseBool(node.Value)
		if err == nil {
			return Bool(b)
		}
	case "!!int":
		i, err := strconv.ParseInt(node.Value, 10, 64)
		if err == nil {
			return Int(i)
		}
	case "!!float":
		f, err := strconv.ParseFloat(node.Value, 64)
		if err == nil {
			return Float(f)
		}
	}
	return String(node.Value)
}
