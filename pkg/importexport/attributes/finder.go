package attributes

// Options are the serialization options of one entity class.
//
// A nil slice means the category has no entry for the class; an empty,
// non-nil slice is a configured but empty list.
type Options struct {
	Only    []string `json:"only,omitempty" yaml:"only,omitempty"`
	Except  []string `json:"except,omitempty" yaml:"except,omitempty"`
	Methods []string `json:"methods,omitempty" yaml:"methods,omitempty"`
	Diffs   bool     `json:"diffs,omitempty" yaml:"diffs,omitempty"`
	Inline  bool     `json:"inline,omitempty" yaml:"inline,omitempty"`
}

// Empty reports whether no category contributed anything.
func (o Options) Empty() bool {
	return o.Only == nil && o.Except == nil && o.Methods == nil && !o.Diffs && !o.Inline
}

// Tables are the five rule tables keyed by entity-class identifier, in the
// shape they are read from a rule file. Any of them may be nil.
type Tables struct {
	Included map[string][]string
	Excluded map[string][]string
	Methods  map[string][]string
	Diffs    []string
	Inline   []string
}

// Finder is the attribute selection policy: it answers which fields of an
// entity class may be serialized and with which extra behavior.
//
// A Finder copies its tables at construction and never changes afterwards,
// so it can be shared freely between sessions.
type Finder struct {
	included map[string][]string
	excluded map[string][]string
	methods  map[string][]string
	diffs    map[string]struct{}
	inline   map[string]struct{}
}

// NewFinder builds a policy from the given rule tables.
func NewFinder(t Tables) *Finder {
	return &Finder{
		included: copyLists(t.Included),
		excluded: copyLists(t.Excluded),
		methods:  copyLists(t.Methods),
		diffs:    toSet(t.Diffs),
		inline:   toSet(t.Inline),
	}
}

// KeyOf returns the identifier used for every rule lookup of n.
func (f *Finder) KeyOf(n Node) string {
	return n.Key
}

// Resolve combines the options of every category that has an entry for the
// node's key. It returns the zero Options when no category does.
func (f *Finder) Resolve(n Node) Options {
	return f.ResolveKey(f.KeyOf(n))
}

// ResolveKey is Resolve for a bare identifier.
func (f *Finder) ResolveKey(key string) Options {
	var opts Options

	if list, ok := f.included[key]; ok {
		opts.Only = cloneList(list)
	}
	if list, ok := f.excluded[key]; ok {
		opts.Except = cloneList(list)
	}
	if list, ok := f.methods[key]; ok {
		opts.Methods = cloneList(list)
	}
	if _, ok := f.diffs[key]; ok {
		opts.Diffs = true
	}
	if _, ok := f.inline[key]; ok {
		opts.Inline = true
	}

	return opts
}

// Annotate returns n unchanged when it resolves to no options, otherwise a
// copy of n carrying its resolved options. Children are not visited.
func (f *Finder) Annotate(n Node) Node {
	opts := f.Resolve(n)
	if opts.Empty() {
		return n
	}
	n.Options = &opts
	return n
}

// DecorateIfPresent calls fn with the node's options only when they are
// not empty. It never modifies n.
func (f *Finder) DecorateIfPresent(n Node, fn func(Options)) {
	opts := f.Resolve(n)
	if opts.Empty() {
		return
	}
	fn(opts)
}

// ExcludedFieldNames returns the deny-list of entityKey, or an empty slice
// when the class has none.
func (f *Finder) ExcludedFieldNames(entityKey string) []string {
	list, ok := f.excluded[entityKey]
	if !ok {
		return []string{}
	}
	return cloneList(list)
}

// IncludedFieldNames returns the allow-list of entityKey and whether one is
// configured.
func (f *Finder) IncludedFieldNames(entityKey string) ([]string, bool) {
	list, ok := f.included[entityKey]
	if !ok {
		return nil, false
	}
	return cloneList(list), true
}

func copyLists(in map[string][]string) map[string][]string {
	out := make(map[string][]string, len(in))
	for key, list := range in {
		// A key with a null value counts as unconfigured.
		if list == nil {
			continue
		}
		out[key] = cloneList(list)
	}
	return out
}

// cloneList copies list, keeping a configured empty list non-nil.
func cloneList(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}

func toSet(keys []string) map[string]struct{} {
	out := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		out[key] = struct{}{}
	}
	return out
}
