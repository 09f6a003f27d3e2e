package attributes

import (
	"reflect"
	"testing"
)

func testTables() Tables {
	return Tables{
		Included: map[string][]string{
			"author": {"name", "username"},
			"empty":  {},
		},
		Excluded: map[string][]string{
			"project": {"runners_token", "import_url"},
			"user":    {"secret"},
		},
		Methods: map[string][]string{
			"notes":   {"type"},
			"project": {"visibility_label"},
		},
		Diffs:  []string{"merge_request_diff"},
		Inline: []string{"project_feature"},
	}
}

func TestFinder_Resolve(t *testing.T) {
	finder := NewFinder(testTables())

	tests := []struct {
		name string
		node Node
		want Options
	}{
		{
			name: "unknown key resolves to nothing",
			node: Leaf("labels"),
			want: Options{},
		},
		{
			name: "excluded only",
			node: Leaf("user"),
			want: Options{Except: []string{"secret"}},
		},
		{
			name: "included only",
			node: Leaf("author"),
			want: Options{Only: []string{"name", "username"}},
		},
		{
			name: "excluded and methods combine",
			node: Association("project", Leaf("labels")),
			want: Options{
				Except:  []string{"runners_token", "import_url"},
				Methods: []string{"visibility_label"},
			},
		},
		{
			name: "diffs flag",
			node: Leaf("merge_request_diff"),
			want: Options{Diffs: true},
		},
		{
			name: "inline flag",
			node: Leaf("project_feature"),
			want: Options{Inline: true},
		},
		{
			name: "configured empty allow-list is kept",
			node: Leaf("empty"),
			want: Options{Only: []string{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := finder.Resolve(tt.node)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Resolve(%q) = %+v, want %+v", tt.node.Key, got, tt.want)
			}
		})
	}
}

func TestFinder_ResolveEmptyTables(t *testing.T) {
	finder := NewFinder(Tables{})

	got := finder.Resolve(Leaf("project"))
	if !got.Empty() {
		t.Errorf("Resolve() = %+v, want empty options", got)
	}
}

func TestFinder_ResolveReturnsCopies(t *testing.T) {
	tables := testTables()
	finder := NewFinder(tables)

	// Mutating the input after construction must not leak in.
	tables.Excluded["user"][0] = "changed"

	opts := finder.Resolve(Leaf("user"))
	if opts.Except[0] != "secret" {
		t.Fatalf("Except[0] = %q, want %q", opts.Except[0], "secret")
	}

	// Mutating a result must not leak back.
	opts.Except[0] = "mutated"
	again := finder.Resolve(Leaf("user"))
	if again.Except[0] != "secret" {
		t.Errorf("Except[0] after mutation = %q, want %q", again.Except[0], "secret")
	}
}

func TestFinder_NullListIsUnconfigured(t *testing.T) {
	finder := NewFinder(Tables{
		Excluded: map[string][]string{"user": nil},
	})

	if opts := finder.Resolve(Leaf("user")); !opts.Empty() {
		t.Errorf("Resolve() = %+v, want empty options", opts)
	}
}

func TestFinder_KeyOf(t *testing.T) {
	finder := NewFinder(Tables{})

	tests := []struct {
		node Node
		want string
	}{
		{node: Leaf("labels"), want: "labels"},
		{node: Association("issues", Leaf("notes"), Leaf("events")), want: "issues"},
		{node: Association("milestones"), want: "milestones"},
	}

	for _, tt := range tests {
		if got := finder.KeyOf(tt.node); got != tt.want {
			t.Errorf("KeyOf() = %q, want %q", got, tt.want)
		}
	}
}

func TestFinder_Annotate(t *testing.T) {
	finder := NewFinder(testTables())

	t.Run("unconfigured node is returned unchanged", func(t *testing.T) {
		node := Leaf("labels")
		got := finder.Annotate(node)
		if got.Annotated() {
			t.Errorf("Annotate() attached options %+v", *got.Options)
		}
		if !reflect.DeepEqual(got, node) {
			t.Errorf("Annotate() = %+v, want %+v", got, node)
		}
	})

	t.Run("configured node carries options", func(t *testing.T) {
		node := Association("notes", Leaf("author"))
		got := finder.Annotate(node)
		if !got.Annotated() {
			t.Fatal("Annotate() did not attach options")
		}
		want := Options{Methods: []string{"type"}}
		if !reflect.DeepEqual(*got.Options, want) {
			t.Errorf("Options = %+v, want %+v", *got.Options, want)
		}
		if node.Options != nil {
			t.Error("Annotate() modified its input")
		}
	})

	t.Run("children are not visited", func(t *testing.T) {
		got := finder.Annotate(Association("issues", Leaf("author")))
		if got.Children[0].Annotated() {
			t.Error("Annotate() annotated a child node")
		}
	})
}

func TestFinder_DecorateIfPresent(t *testing.T) {
	finder := NewFinder(testTables())

	called := false
	finder.DecorateIfPresent(Leaf("labels"), func(Options) { called = true })
	if called {
		t.Error("DecorateIfPresent() invoked callback for unconfigured key")
	}

	var got Options
	finder.DecorateIfPresent(Leaf("user"), func(opts Options) {
		called = true
		got = opts
	})
	if !called {
		t.Fatal("DecorateIfPresent() did not invoke callback for configured key")
	}
	if !reflect.DeepEqual(got.Except, []string{"secret"}) {
		t.Errorf("Except = %v, want [secret]", got.Except)
	}
}

func TestFinder_ExcludedFieldNames(t *testing.T) {
	finder := NewFinder(testTables())

	got := finder.ExcludedFieldNames("project")
	want := []string{"runners_token", "import_url"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExcludedFieldNames(project) = %v, want %v", got, want)
	}

	missing := finder.ExcludedFieldNames("labels")
	if missing == nil || len(missing) != 0 {
		t.Errorf("ExcludedFieldNames(labels) = %#v, want empty non-nil slice", missing)
	}
}

func TestFinder_IncludedFieldNames(t *testing.T) {
	finder := NewFinder(testTables())

	if _, ok := finder.IncludedFieldNames("project"); ok {
		t.Error("IncludedFieldNames(project) reported an allow-list")
	}

	got, ok := finder.IncludedFieldNames("author")
	if !ok {
		t.Fatal("IncludedFieldNames(author) reported no allow-list")
	}
	if !reflect.DeepEqual(got, []string{"name", "username"}) {
		t.Errorf("IncludedFieldNames(author) = %v", got)
	}
}
