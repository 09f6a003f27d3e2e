package attributes

// Kind tells whether a tree node is a bare entity class or an association
// carrying nested configuration.
type Kind int

const (
	// KindLeaf is a bare entity-class identifier.
	KindLeaf Kind = iota
	// KindAssociation is an identifier with nested child nodes.
	KindAssociation
)

// String returns a readable name for the kind.
func (k Kind) String() string {
	switch k {
	case KindLeaf:
		return "leaf"
	case KindAssociation:
		return "association"
	default:
		return "unknown"
	}
}

// Node is one entry of the export configuration tree. The kind is fixed when
// the node is built, so the key used for rule lookups never depends on
// inspecting the node's shape at runtime.
//
// Options is nil until the node has been annotated by a Finder with a
// non-empty option set.
type Node struct {
	Kind     Kind
	Key      string
	Children []Node
	Options  *Options
}

// Leaf creates a bare node for the entity class key.
func Leaf(key string) Node {
	return Node{Kind: KindLeaf, Key: key}
}

// Association creates a node for key with the given nested children.
func Association(key string, children ...Node) Node {
	return Node{Kind: KindAssociation, Key: key, Children: children}
}

// IsLeaf reports whether the node has no nested configuration.
func (n Node) IsLeaf() bool {
	return n.Kind == KindLeaf
}

// Annotated reports whether serialization options are attached.
func (n Node) Annotated() bool {
	return n.Options != nil
}

// Walk calls fn for n and every descendant, depth first.
func (n Node) Walk(fn func(Node)) {
	fn(n)
	for _, child := range n.Children {
		child.Walk(fn)
	}
}
