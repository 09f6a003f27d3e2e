package savers

import (
	"drepo-hq/portage/pkg/importexport/attributes"
	"drepo-hq/portage/pkg/project"
)

// DiffKey is the output key of a record's historical diff.
const DiffKey = "diff"

// Serializer renders a record graph according to an annotated
// configuration tree.
type Serializer struct{}

// Serialize renders rec with the options of node and recurses into the
// associations listed as node's children. Associations not in the tree are
// never emitted.
func (Serializer) Serialize(rec *project.Record, node attributes.Node) map[string]any {
	var opts attributes.Options
	if node.Options != nil {
		opts = *node.Options
	}

	out := make(map[string]any)
	if rec == nil {
		return out
	}

	if opts.Only != nil {
		for _, name := range opts.Only {
			if v, ok := rec.Attributes[name]; ok {
				out[name] = v
			}
		}
	} else {
		for name, v := range rec.Attributes {
			out[name] = v
		}
	}
	for _, name := range opts.Except {
		delete(out, name)
	}

	for _, name := range opts.Methods {
		if v, ok := rec.Computed[name]; ok {
			out[name] = v
		}
	}

	if opts.Diffs && rec.Diff != nil {
		out[DiffKey] = rec.Diff
	}

	for _, child := range node.Children {
		related := rec.Related(child.Key)

		if child.Options != nil && child.Options.Inline {
			switch len(related) {
			case 0:
				out[child.Key] = nil
				continue
			case 1:
				out[child.Key] = Serializer{}.Serialize(related[0], child)
				continue
			}
		}

		items := make([]map[string]any, 0, len(related))
		for _, r := range related {
			items = append(items, Serializer{}.Serialize(r, child))
		}
		out[child.Key] = items
	}

	return out
}
