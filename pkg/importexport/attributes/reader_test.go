package attributes

import (
	"reflect"
	"testing"
)

func TestReader_ProjectTree(t *testing.T) {
	f, err := Parse([]byte(sampleRules))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	tree := NewReader(f).ProjectTree()

	if tree.Key != DefaultRoot {
		t.Fatalf("root key = %q, want %q", tree.Key, DefaultRoot)
	}
	if !tree.Annotated() || !reflect.DeepEqual(tree.Options.Except, []string{"runners_token"}) {
		t.Errorf("root options = %+v, want except [runners_token]", tree.Options)
	}

	labels := tree.Children[0]
	if labels.Annotated() {
		t.Errorf("labels should carry no options, got %+v", *labels.Options)
	}

	notes := tree.Children[2].Children[0]
	if notes.Key != "notes" || !notes.Annotated() {
		t.Fatalf("notes node = %+v, want annotated notes", notes)
	}
	want := Options{Except: []string{"note_html"}, Methods: []string{"type"}}
	if !reflect.DeepEqual(*notes.Options, want) {
		t.Errorf("notes options = %+v, want %+v", *notes.Options, want)
	}

	author := notes.Children[0]
	if !author.Annotated() || !reflect.DeepEqual(author.Options.Only, []string{"name", "username"}) {
		t.Errorf("author options = %+v, want only [name username]", author.Options)
	}

	feature := tree.Children[3]
	if !feature.Annotated() || !feature.Options.Inline {
		t.Errorf("project_feature options = %+v, want inline", feature.Options)
	}
}

func TestReader_OptionsByKey(t *testing.T) {
	f, err := Parse([]byte(sampleRules))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	index := NewReader(f).OptionsByKey()

	for _, key := range []string{"project", "notes", "author", "project_feature"} {
		if _, ok := index[key]; !ok {
			t.Errorf("OptionsByKey() missing %q", key)
		}
	}
	if _, ok := index["labels"]; ok {
		t.Error("OptionsByKey() contains unconfigured key labels")
	}
	// merge_request_diff is configured but not part of the tree.
	if _, ok := index["merge_request_diff"]; ok {
		t.Error("OptionsByKey() contains key absent from the tree")
	}
}

func TestReader_RelationNames(t *testing.T) {
	f, err := Parse([]byte(sampleRules))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}

	got := NewReader(f).RelationNames()
	want := []string{
		"project", "labels", "priorities", "milestones", "issues",
		"notes", "author", "label_links", "label", "project_feature",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("RelationNames() = %v\nwant %v", got, want)
	}
}
