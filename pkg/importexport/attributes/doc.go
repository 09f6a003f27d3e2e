// Package attributes decides which fields of the project entity graph are
// safe to export.
//
// A rule file lists the configuration tree (which associations hang off the
// project) and five rule tables keyed by entity identifier:
//
//	project_tree:
//	  - labels:
//	      - priorities
//	  - issues:
//	      - notes:
//	          - author
//	included_attributes:
//	  author: [name, username]
//	excluded_attributes:
//	  project: [runners_token]
//	methods:
//	  notes: [type]
//	diffs: [merge_request_diff]
//	inline: [project_feature]
//
// Tree entries become tagged Nodes at load time: a bare identifier is a Leaf,
// a single-key mapping an Association. A Finder resolves the options of a
// node from the tables; a Reader annotates the whole tree for the entity
// serializer; a Watcher hot-reloads the file for future sessions; an Auditor
// reports fields that are neither safe-listed nor excluded.
package attributes
