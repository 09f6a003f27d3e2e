package attributes

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// Auditor detects fields of exported entity classes that nobody has
// classified yet: neither marked safe to export nor denied by the rules.
type Auditor struct {
	finder *Finder
	safe   map[string][]string
}

// Finding lists the unclassified fields of one entity class.
type Finding struct {
	Entity     string   `json:"entity" yaml:"entity"`
	Attributes []string `json:"attributes" yaml:"attributes"`
}

// NewAuditor creates an Auditor checking against the safe-attribute lists
// (entity identifier to field names).
func NewAuditor(finder *Finder, safe map[string][]string) *Auditor {
	return &Auditor{
		finder: finder,
		safe:   copyLists(safe),
	}
}

// LoadFieldLists reads a YAML mapping of entity identifier to field names,
// the format of both the safe-attribute file and a column dump.
func LoadFieldLists(path string) (map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	lists := make(map[string][]string)
	if err := yaml.Unmarshal(data, &lists); err != nil {
		return nil, fmt.Errorf("failed to parse %q: %w", path, err)
	}
	return lists, nil
}

// NewAttributes returns the columns of entity that would be exported but
// are not in its safe list. Excluded fields are dropped first; when the
// entity has an allow-list only allowed fields are considered. The result
// keeps the order of columns.
func (a *Auditor) NewAttributes(entity string, columns []string) []string {
	excluded := make(map[string]bool)
	for _, name := range a.finder.ExcludedFieldNames(entity) {
		excluded[name] = true
	}

	var allowed map[string]bool
	if only, ok := a.finder.IncludedFieldNames(entity); ok {
		allowed = make(map[string]bool, len(only))
		for _, name := range only {
			allowed[name] = true
		}
	}

	safe := make(map[string]bool)
	for _, name := range a.safe[entity] {
		safe[name] = true
	}

	var found []string
	for _, column := range columns {
		if excluded[column] || safe[column] {
			continue
		}
		if allowed != nil && !allowed[column] {
			continue
		}
		found = append(found, column)
	}
	return found
}

// Audit checks every entity in columns and returns one Finding per entity
// with unclassified fields, sorted by entity.
func (a *Auditor) Audit(columns map[string][]string) []Finding {
	entities := make([]string, 0, len(columns))
	for entity := range columns {
		entities = append(entities, entity)
	}
	sort.Strings(entities)

	var findings []Finding
	for _, entity := range entities {
		if attrs := a.NewAttributes(entity, columns[entity]); len(attrs) > 0 {
			findings = append(findings, Finding{Entity: entity, Attributes: attrs})
		}
	}
	return findings
}
