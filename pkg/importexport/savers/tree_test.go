package savers

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"drepo-hq/portage/pkg/importexport"
	"drepo-hq/portage/pkg/importexport/attributes"
	"drepo-hq/portage/pkg/project"
)

const treeRules = `
project_tree:
  - labels
  - issues:
      - notes
  - merge_requests:
      - merge_request_diff
  - project_feature
excluded_attributes:
  project: [runners_token]
  notes: [note_html]
included_attributes:
  labels: [title]
methods:
  issues: [state_label]
diffs: [merge_request_diff]
inline: [project_feature]
`

func testReader(t *testing.T) *attributes.Reader {
	t.Helper()
	f, err := attributes.Parse([]byte(treeRules))
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	return attributes.NewReader(f)
}

func testRecord() *project.Record {
	return &project.Record{
		Attributes: map[string]any{"name": "Demo", "runners_token": "tok"},
		Relations: map[string][]*project.Record{
			"labels": {
				{Attributes: map[string]any{"title": "bug", "color": "#f00"}},
			},
			"issues": {
				{
					Attributes: map[string]any{"title": "First"},
					Computed:   map[string]any{"state_label": "opened", "unused": true},
					Relations: map[string][]*project.Record{
						"notes": {{Attributes: map[string]any{"note": "hi", "note_html": "<p>hi</p>"}}},
					},
				},
			},
			"merge_requests": {
				{
					Attributes: map[string]any{"iid": 1},
					Relations: map[string][]*project.Record{
						"merge_request_diff": {{Attributes: map[string]any{"state": "collected"}, Diff: "@@ -1 +1 @@"}},
					},
				},
			},
			"project_feature": {
				{Attributes: map[string]any{"issues_access_level": 20}},
			},
			"runners": {
				{Attributes: map[string]any{"token": "never exported"}},
			},
		},
	}
}

func TestSerializer_Serialize(t *testing.T) {
	got := Serializer{}.Serialize(testRecord(), testReader(t).ProjectTree())

	want := map[string]any{
		"name": "Demo",
		"labels": []map[string]any{
			{"title": "bug"},
		},
		"issues": []map[string]any{
			{
				"title":       "First",
				"state_label": "opened",
				"notes": []map[string]any{
					{"note": "hi"},
				},
			},
		},
		"merge_requests": []map[string]any{
			{
				"iid": 1,
				"merge_request_diff": []map[string]any{
					{"state": "collected", DiffKey: "@@ -1 +1 @@"},
				},
			},
		},
		"project_feature": map[string]any{"issues_access_level": 20},
	}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Serialize() =\n%#v\nwant\n%#v", got, want)
	}
}

func TestSerializer_MissingRelations(t *testing.T) {
	got := Serializer{}.Serialize(&project.Record{}, testReader(t).ProjectTree())

	if labels, ok := got["labels"].([]map[string]any); !ok || len(labels) != 0 {
		t.Errorf("labels = %#v, want empty list", got["labels"])
	}
	if v, ok := got["project_feature"]; !ok || v != nil {
		t.Errorf("project_feature = %#v, want nil", v)
	}
}

func TestProjectTreeSaver(t *testing.T) {
	shared := newShared(t)
	p := &project.Project{ID: 1, Name: "Demo", Path: "demo", Tree: testRecord()}

	if !NewProjectTreeSaver(p, shared, testReader(t)).Save(context.Background()) {
		t.Fatalf("Save() = false, errors: %v", shared.Errors())
	}

	data, err := os.ReadFile(filepath.Join(shared.ExportPath(), importexport.ProjectFilename))
	if err != nil {
		t.Fatalf("failed to read project.json: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("project.json is not valid JSON: %v", err)
	}
	if _, ok := decoded["runners_token"]; ok {
		t.Error("project.json contains excluded runners_token")
	}
	if _, ok := decoded["runners"]; ok {
		t.Error("project.json contains association absent from the tree")
	}
	if decoded["name"] != "Demo" {
		t.Errorf("name = %v, want Demo", decoded["name"])
	}
}

func TestProjectTreeSaver_MetadataFallback(t *testing.T) {
	shared := newShared(t)
	p := &project.Project{ID: 9, Name: "Bare", Path: "bare"}

	if !NewProjectTreeSaver(p, shared, testReader(t)).Save(context.Background()) {
		t.Fatalf("Save() = false, errors: %v", shared.Errors())
	}

	data, err := os.ReadFile(filepath.Join(shared.ExportPath(), importexport.ProjectFilename))
	if err != nil {
		t.Fatalf("failed to read project.json: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded["path"] != "bare" || decoded["id"] != float64(9) {
		t.Errorf("decoded = %v", decoded)
	}
}
