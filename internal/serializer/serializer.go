// Package serializer emits the fenced text form of a block tree, the inverse
// of the builder. Re-parsing serialized output yields a semantically equal
// tree; byte-for-byte formatting of the source is not preserved, only the
// decoded payload and tree shape.
package serializer

import (
	"bytes"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sparktype/blockdown/internal/types"
)

// Serialize renders a block sequence as fenced block text. An empty sequence
// serializes to the empty string.
func Serialize(blocks []*types.Block) (string, error) {
	if len(blocks) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for i, block := range blocks {
		if i > 0 {
			sb.WriteString("\n")
		}
		if err := writeBlock(&sb, block); err != nil {
			return "", err
		}
	}
	return sb.String(), nil
}

// writeBlock emits one block recursively.
func writeBlock(sb *strings.Builder, block *types.Block) error {
	info := "block:content"
	if block.IsContainer() {
		info = "block:container"
	}

	body, err := encodeBody(block)
	if err != nil {
		return err
	}

	sb.WriteString("```")
	sb.WriteString(info)
	sb.WriteString("\n")
	sb.WriteString(body)
	sb.WriteString("```\n")

	if !block.IsContainer() {
		return nil
	}

	for i := range block.Regions {
		region := &block.Regions[i]
		sb.WriteString("\n---region:")
		sb.WriteString(region.Name)
		sb.WriteString("---\n")
		for _, child := range region.Blocks {
			sb.WriteString("\n")
			if err := writeBlock(sb, child); err != nil {
				return err
			}
		}
	}

	sb.WriteString("\n```block:end\n```\n")
	return nil
}

// encodeBody renders the block body as YAML with a fixed top-level key order:
// id, type, content, config, then any preserved extra keys sorted by name.
// Empty mappings are omitted entirely.
func encodeBody(block *types.Block) (string, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	appendEntry := func(key string, value *yaml.Node) {
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: key},
			value,
		)
	}

	if block.ID != "" {
		appendEntry("id", scalarNode(block.ID))
	}
	if block.Type != "" {
		appendEntry("type", scalarNode(block.Type))
	}
	if len(block.Content) > 0 {
		appendEntry("content", valueNode(block.Content))
	}
	if len(block.Config) > 0 {
		appendEntry("config", valueNode(block.Config))
	}
	for _, key := range sortedKeys(block.Extra) {
		appendEntry(key, valueNode(block.Extra[key]))
	}

	if len(root.Content) == 0 {
		return "", nil
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(root); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// valueNode converts a decoded value into a YAML node. Mapping keys are
// sorted so serialization is deterministic regardless of map iteration order.
func valueNode(value interface{}) *yaml.Node {
	switch v := value.(type) {
	case map[string]interface{}:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, key := range sortedKeys(v) {
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: key},
				valueNode(v[key]),
			)
		}
		return node
	case []interface{}:
		node := &yaml.Node{Kind: yaml.SequenceNode}
		for _, item := range v {
			node.Content = append(node.Content, valueNode(item))
		}
		return node
	default:
		var node yaml.Node
		// Encode scalars through the YAML machinery so numbers, booleans,
		// and strings needing quotes come out well-formed.
		if err := node.Encode(value); err != nil {
			return scalarNode("")
		}
		return &node
	}
}

// scalarNode wraps a plain string scalar.
func scalarNode(s string) *yaml.Node {
	var node yaml.Node
	if err := node.Encode(s); err != nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Value: s}
	}
	return &node
}

// sortedKeys returns the map's keys in lexical order.
func sortedKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
