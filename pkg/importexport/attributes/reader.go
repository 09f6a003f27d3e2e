package attributes

// Reader exposes a rule file as an annotated configuration tree ready for
// the entity-tree serializer.
type Reader struct {
	root   string
	tree   []Node
	finder *Finder
}

// NewReader builds a Reader for f rooted at DefaultRoot.
func NewReader(f *File) *Reader {
	return &Reader{
		root:   DefaultRoot,
		tree:   f.Tree,
		finder: NewFinder(f.Tables),
	}
}

// Finder returns the policy built from the rule tables.
func (r *Reader) Finder() *Finder {
	return r.finder
}

// ProjectTree returns the root node with its children, every node annotated
// with its resolved options.
func (r *Reader) ProjectTree() Node {
	return r.annotateTree(Association(r.root, r.tree...))
}

func (r *Reader) annotateTree(n Node) Node {
	if len(n.Children) > 0 {
		children := make([]Node, len(n.Children))
		for i, child := range n.Children {
			children[i] = r.annotateTree(child)
		}
		n.Children = children
	}
	return r.finder.Annotate(n)
}

// OptionsByKey collects the options of every configured identifier that
// appears in the tree. The first occurrence of an identifier wins.
func (r *Reader) OptionsByKey() map[string]Options {
	index := make(map[string]Options)
	Association(r.root, r.tree...).Walk(func(n Node) {
		r.finder.DecorateIfPresent(n, func(opts Options) {
			if _, seen := index[n.Key]; !seen {
				index[n.Key] = opts
			}
		})
	})
	return index
}

// RelationNames returns every identifier in the tree, root included, in
// depth-first order without duplicates.
func (r *Reader) RelationNames() []string {
	var names []string
	seen := make(map[string]bool)
	Association(r.root, r.tree...).Walk(func(n Node) {
		if !seen[n.Key] {
			seen[n.Key] = true
			names = append(names, n.Key)
		}
	})
	return names
}
