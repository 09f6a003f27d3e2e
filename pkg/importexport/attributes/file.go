package attributes

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultRoot is the identifier of the tree root.
const DefaultRoot = "project"

// File is a parsed attribute rule file: the configuration tree below the
// root entity and the five rule tables.
type File struct {
	Tree   []Node
	Tables Tables
}

// ruleFile mirrors the on-disk layout. The tree and the set-like tables are
// decoded by hand so that their shapes are fixed at load time.
type ruleFile struct {
	ProjectTree        yaml.Node           `yaml:"project_tree"`
	IncludedAttributes map[string][]string `yaml:"included_attributes"`
	ExcludedAttributes map[string][]string `yaml:"excluded_attributes"`
	Methods            map[string][]string `yaml:"methods"`
	Diffs              yaml.Node           `yaml:"diffs"`
	Inline             yaml.Node           `yaml:"inline"`
}

// LoadFile reads and parses the rule file at path.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read attribute rules %q: %w", path, err)
	}

	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse attribute rules %q: %w", path, err)
	}
	return f, nil
}

// Parse decodes a rule file from YAML.
func Parse(data []byte) (*File, error) {
	var raw ruleFile
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	tree, err := decodeChildren(&raw.ProjectTree)
	if err != nil {
		return nil, fmt.Errorf("project_tree: %w", err)
	}

	diffs, err := decodeKeySet(&raw.Diffs)
	if err != nil {
		return nil, fmt.Errorf("diffs: %w", err)
	}

	inline, err := decodeKeySet(&raw.Inline)
	if err != nil {
		return nil, fmt.Errorf("inline: %w", err)
	}

	return &File{
		Tree: tree,
		Tables: Tables{
			Included: raw.IncludedAttributes,
			Excluded: raw.ExcludedAttributes,
			Methods:  raw.Methods,
			Diffs:    diffs,
			Inline:   inline,
		},
	}, nil
}

// decodeNode turns one tree entry into a tagged node: a scalar is a leaf,
// a single-key mapping is an association.
func decodeNode(n *yaml.Node) (Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Value == "" {
			return Node{}, fmt.Errorf("line %d: empty identifier", n.Line)
		}
		return Leaf(n.Value), nil

	case yaml.MappingNode:
		if len(n.Content) != 2 {
			return Node{}, fmt.Errorf("line %d: association must have exactly one key, got %d", n.Line, len(n.Content)/2)
		}
		key := n.Content[0]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return Node{}, fmt.Errorf("line %d: association key must be a plain identifier", key.Line)
		}
		children, err := decodeChildren(n.Content[1])
		if err != nil {
			return Node{}, fmt.Errorf("%s: %w", key.Value, err)
		}
		return Association(key.Value, children...), nil

	default:
		return Node{}, fmt.Errorf("line %d: unexpected tree entry", n.Line)
	}
}

// decodeChildren decodes the value of an association (or the tree root).
// A sequence yields one node per item, a scalar a single leaf, a single-key
// mapping one association, and null no children.
func decodeChildren(n *yaml.Node) ([]Node, error) {
	switch n.Kind {
	case 0:
		return nil, nil

	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		node, err := decodeNode(n)
		if err != nil {
			return nil, err
		}
		return []Node{node}, nil

	case yaml.SequenceNode:
		nodes := make([]Node, 0, len(n.Content))
		for _, item := range n.Content {
			node, err := decodeNode(item)
			if err != nil {
				return nil, err
			}
			nodes = append(nodes, node)
		}
		return nodes, nil

	case yaml.MappingNode:
		node, err := decodeNode(n)
		if err != nil {
			return nil, err
		}
		return []Node{node}, nil

	default:
		return nil, fmt.Errorf("line %d: unexpected tree value", n.Line)
	}
}

// decodeKeySet accepts a sequence of identifiers or a mapping whose keys
// are the identifiers.
func decodeKeySet(n *yaml.Node) ([]string, error) {
	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return nil, nil
		}
		return []string{n.Value}, nil
	case yaml.SequenceNode:
		keys := make([]string, 0, len(n.Content))
		for _, item := range n.Content {
			if item.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: expected identifier", item.Line)
			}
			keys = append(keys, item.Value)
		}
		return keys, nil
	case yaml.MappingNode:
		keys := make([]string, 0, len(n.Content)/2)
		for i := 0; i < len(n.Content); i += 2 {
			keys = append(keys, n.Content[i].Value)
		}
		return keys, nil
	default:
		return nil, fmt.Errorf("line %d: expected a list of identifiers", n.Line)
	}
}
